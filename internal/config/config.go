package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SessionConfig
	TransferConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Session
	Transfer
	Cors
}

// Load reads an optional .env file and then parses the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := &mainConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("[config Load] failed to parse environment: %w", err)
	}
	return c.validated()
}

// LoadFrom parses the given variables instead of the process environment.
// Unset variables take their defaults.
func LoadFrom(vars map[string]string) (Config, error) {
	c := &mainConfig{}
	if err := env.Parse(c, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("[config LoadFrom] failed to parse environment: %w", err)
	}
	return c.validated()
}

func (c *mainConfig) validated() (Config, error) {
	if err := c.Session.validate(c.GetEnv()); err != nil {
		return nil, err
	}
	if err := c.Transfer.validate(); err != nil {
		return nil, err
	}
	return c, nil
}
