package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session gateway
var (
	// Session errors
	ErrNoSession    = errors.New("no session cookie found")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenSigning = errors.New("token signing failed")

	// Upload errors
	ErrMalformedMultipart = errors.New("malformed multipart body")
	ErrNoFileField        = errors.New("no file field in multipart body")
	ErrUploadIO           = errors.New("upload i/o failure")
	ErrUploadTooLarge     = errors.New("upload too large")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
