package tpmdev

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
)

// RootKeyTemplate is the public area of the authenticator's persistent
// root key: the TCG reference RSA-2048 SRK template — a restricted,
// non-duplicable, owner-hierarchy decryption key whose sensitive data
// originates inside the TPM.
// https://trustedcomputinggroup.org/wp-content/uploads/TCG-TPM-v2.0-Provisioning-Guidance-Published-v1r1.pdf
var RootKeyTemplate = tpm2.RSASRKTemplate

// Context is a logical command channel over an open [Device].
type Context struct {
	tpm transport.TPM
}

func newContext(rw io.ReadWriter) *Context {
	return &Context{tpm: transport.FromReadWriter(rw)}
}

// TPM exposes the underlying transport for issuing commands directly.
func (c *Context) TPM() transport.TPM {
	return c.tpm
}

// Startup issues TPM2_Startup(CLEAR). If the module is already
// initialized the TPM answers TPM_RC_INITIALIZE; callers should treat
// that as success via [IsAlreadyInitialized].
func (c *Context) Startup() error {
	if c.tpm == nil {
		return ErrContextClosed
	}
	_, err := tpm2.Startup{
		StartupType: tpm2.TPMSUClear,
	}.Execute(c.tpm)
	return err
}

// Shutdown issues TPM2_Shutdown(CLEAR).
func (c *Context) Shutdown() error {
	if c.tpm == nil {
		return ErrContextClosed
	}
	_, err := tpm2.Shutdown{
		ShutdownType: tpm2.TPMSUClear,
	}.Execute(c.tpm)
	return err
}

// Close releases the context. The device it was acquired from stays
// open. Closing an already-closed context is a no-op.
func (c *Context) Close() error {
	c.tpm = nil
	return nil
}

// PersistentKeyExists probes whether an object is resident at the given
// persistent handle.
func (c *Context) PersistentKeyExists(handle tpm2.TPMHandle) bool {
	if c.tpm == nil {
		return false
	}
	_, err := tpm2.ReadPublic{
		ObjectHandle: handle,
	}.Execute(c.tpm)
	return err == nil
}

// CreateRootKey creates a transient primary key under the owner
// hierarchy from [RootKeyTemplate] with an empty sensitive area. The
// caller owns the returned transient object until it is made persistent
// or flushed.
func (c *Context) CreateRootKey(ownerAuth []byte) (*tpm2.NamedHandle, error) {
	if c.tpm == nil {
		return nil, ErrContextClosed
	}
	rsp, err := tpm2.CreatePrimary{
		PrimaryHandle: tpm2.AuthHandle{
			Handle: tpm2.TPMRHOwner,
			Auth:   tpm2.PasswordAuth(ownerAuth),
		},
		InPublic: tpm2.New2B(RootKeyTemplate),
	}.Execute(c.tpm)
	if err != nil {
		return nil, fmt.Errorf("CreatePrimary failed: %w", err)
	}
	return &tpm2.NamedHandle{Handle: rsp.ObjectHandle, Name: rsp.Name}, nil
}

// MakePersistent installs the transient key at the given persistent
// handle and flushes the transient object. The flush is best effort:
// once EvictControl has succeeded the key is installed, and a leftover
// transient copy is reclaimed by the TPM on the next power cycle.
func (c *Context) MakePersistent(key *tpm2.NamedHandle, handle tpm2.TPMHandle, ownerAuth []byte) error {
	if c.tpm == nil {
		return ErrContextClosed
	}
	_, err := tpm2.EvictControl{
		Auth: tpm2.AuthHandle{
			Handle: tpm2.TPMRHOwner,
			Auth:   tpm2.PasswordAuth(ownerAuth),
		},
		ObjectHandle:     key,
		PersistentHandle: handle,
	}.Execute(c.tpm)
	if err != nil {
		return fmt.Errorf("EvictControl failed: %w", err)
	}
	_ = c.Flush(key)
	return nil
}

// Flush removes a transient object from the TPM.
func (c *Context) Flush(key *tpm2.NamedHandle) error {
	if c.tpm == nil {
		return ErrContextClosed
	}
	_, err := tpm2.FlushContext{
		FlushHandle: key,
	}.Execute(c.tpm)
	return err
}

// IsAlreadyInitialized reports whether err is TPM_RC_INITIALIZE, the
// status a started TPM returns for a redundant TPM2_Startup.
func IsAlreadyInitialized(err error) bool {
	// TPM_RC_INITIALIZE: TPM not initialized by TPM2_Startup or already
	// initialized (TPM 2.0 Part 2, section 6.6.2).
	return errors.Is(err, tpm2.TPMRC(0x100))
}
