package tpmdev

import "fmt"

// Kind selects the transport behind a [Device].
type Kind int

const (
	// UnspecifiedKind means the kind has not been set; it defaults to
	// [Hardware].
	UnspecifiedKind Kind = iota
	// Hardware is a TPM character device exposed by the kernel.
	Hardware
	// Simulator is the in-process Microsoft reference simulator.
	Simulator
)

func (k Kind) String() string {
	switch k {
	case Hardware:
		return "hardware"
	case Simulator:
		return "simulator"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Config holds the transport configuration for [Open].
type Config struct {
	// Kind selects hardware or simulator.
	//
	// Default: [Hardware].
	Kind Kind

	// DevicePath is the TPM character device to open in hardware mode.
	// The in-kernel resource manager device is preferred over /dev/tpm0
	// so the device can be shared with other clients.
	//
	// Default: /dev/tpmrm0.
	DevicePath string

	// MaxOpenTries bounds the open retry loop. Opening the character
	// device can fail transiently while another client holds it.
	//
	// Default: 3.
	MaxOpenTries uint
}

// CheckAndSetDefault validates and sets default values for Config.
func (c *Config) CheckAndSetDefault() error {
	switch c.Kind {
	case UnspecifiedKind:
		c.Kind = Hardware
	case Hardware, Simulator:
	default:
		return fmt.Errorf("%w: %v", ErrInvalidKind, c.Kind)
	}
	if c.DevicePath == "" {
		c.DevicePath = "/dev/tpmrm0"
	}
	if c.MaxOpenTries == 0 {
		c.MaxOpenTries = 3
	}
	return nil
}
