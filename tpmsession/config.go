package tpmsession

import (
	"errors"
	"log/slog"

	"github.com/spf13/afero"
)

var (
	ErrMissingTransport = errors.New("transport is required")
	ErrMissingDataDir   = errors.New("data directory is required")
	ErrNotConnected     = errors.New("no open session context")
	ErrNoKeyHeld        = errors.New("no key blob held by the session")
	ErrNoKeyLoaded      = errors.New("no key loaded in the module")
	ErrBufferTooLarge   = errors.New("data exceeds the module's maximum buffer size")
)

// Config holds the configuration for a [Session].
type Config struct {
	// Transport is the open TPM transport. Required.
	Transport Transport

	// DataDir is the authenticator's data directory; the diagnostic log
	// and key blobs live under it. Required.
	DataDir string

	// DebugLevel is the diagnostic log threshold.
	//
	// Default: [slog.LevelInfo].
	DebugLevel slog.Level

	// Fs is the filesystem the data directory lives on.
	//
	// Default: [afero.NewOsFs].
	Fs afero.Fs

	// PromptOwnerAuth makes the session prompt for the owner-hierarchy
	// authorization before provisioning. When false the owner
	// authorization is assumed empty.
	PromptOwnerAuth bool
}

// CheckAndSetDefault validates and sets default values for Config.
func (c *Config) CheckAndSetDefault() error {
	if c.Transport == nil {
		return ErrMissingTransport
	}
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return nil
}
