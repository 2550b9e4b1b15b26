package tpmsession

import (
	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"

	"github.com/openauthn/go-tpm-authn/tpmdev"
)

// Transport is the session's view of the TPM transport layer. The
// production implementation is [tpmdev.Device]; tests substitute fakes
// to exercise failure paths that a healthy simulator never takes.
type Transport interface {
	// Hardware reports whether the module is a hardware TPM; hardware
	// modules are powered by the platform, not by this package.
	Hardware() bool
	// Powerup brings a simulated module into a clean power-on state.
	Powerup() error
	// NewContext acquires a fresh session context.
	NewContext() (Context, error)
}

// Context is one logical command channel to the module.
type Context interface {
	// Startup issues the module startup command.
	Startup() error
	// Shutdown issues the module shutdown command.
	Shutdown() error
	// PersistentKeyExists probes a persistent handle.
	PersistentKeyExists(handle tpm2.TPMHandle) bool
	// CreateRootKey creates the transient root key under the owner
	// hierarchy.
	CreateRootKey(ownerAuth []byte) (*tpm2.NamedHandle, error)
	// MakePersistent installs a transient key at a persistent handle.
	MakePersistent(key *tpm2.NamedHandle, handle tpm2.TPMHandle, ownerAuth []byte) error
	// Flush removes a transient object from the module.
	Flush(key *tpm2.NamedHandle) error
	// TPM exposes the raw transport for further commands.
	TPM() transport.TPM
	// Close releases the context.
	Close() error
}

// deviceTransport adapts [tpmdev.Device] to the Transport interface.
type deviceTransport struct {
	dev *tpmdev.Device
}

func (d deviceTransport) Hardware() bool { return d.dev.Hardware() }

func (d deviceTransport) Powerup() error { return d.dev.Powerup() }

func (d deviceTransport) NewContext() (Context, error) {
	ctx, err := d.dev.NewContext()
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

// NewTransport wraps an open device for use by a [Session].
func NewTransport(dev *tpmdev.Device) Transport {
	return deviceTransport{dev: dev}
}
