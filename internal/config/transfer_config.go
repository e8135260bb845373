package config

import "errors"

type TransferConfig interface {
	GetUploadDir() string
	GetMaxUploadBytes() int64
	GetDownloadSize() int
}

type Transfer struct {
	UploadDir      string `env:"UPLOAD_DIR"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"67108864"` // 64 MiB
}

var _ TransferConfig = Transfer{}

// GetUploadDir returns the configured upload root. Empty means a fresh
// temporary directory is created at startup.
func (t Transfer) GetUploadDir() string {
	return t.UploadDir
}

func (t Transfer) GetMaxUploadBytes() int64 {
	return t.MaxUploadBytes
}

// GetDownloadSize is fixed and not client configurable.
func (Transfer) GetDownloadSize() int {
	return 512 * 1024
}

func (t Transfer) validate() error {
	if t.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
