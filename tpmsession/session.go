// Copyright (c) 2026, the go-tpm-authn authors
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpmsession drives the authenticator's TPM session: the
// provisioning pass that brings the module into a usable state with a
// persistent root key installed, and the key operations higher-level
// authenticator logic runs on top of it.
//
// A Session owns one session context at most, the diagnostic log, the
// error-capture slot, and the buffers holding key material produced by
// its operations. It is meant for single-threaded, synchronous use; it
// is not safe for concurrent use.
package tpmsession

import (
	"errors"
	"fmt"

	tpmauthn "github.com/openauthn/go-tpm-authn"
	"github.com/openauthn/go-tpm-authn/tpmbuf"
	"github.com/openauthn/go-tpm-authn/tpmdev"
	"github.com/openauthn/go-tpm-authn/tpmlog"
)

// NoError is the sentinel the error-capture slot resets to when read.
const NoError = "No error"

// Session is the authenticator's session facade.
type Session struct {
	cfg       *Config
	log       *tpmlog.Logger
	ctx       Context
	hardware  bool
	ownerAuth []byte
	lastError string

	// Facade-owned result buffers. Callers may read them until the next
	// operation overwrites them or ReleaseBuffers clears them.
	key   tpmbuf.KeyBlob
	point tpmbuf.Point
	sig   tpmbuf.Signature

	// scratch is the transient exchange buffer for PutBytes/GetBytes.
	scratch tpmbuf.Buffer

	loaded loadedKey
}

// NewSession creates a Session over an open transport. If the
// configuration asks for owner authorization, the prompt runs here,
// once, before any TPM interaction.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.CheckAndSetDefault(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		lastError: NoError,
	}

	if cfg.PromptOwnerAuth {
		prompter := PromptOwnerAuth.Load()
		if prompter == nil {
			return nil, errors.New("PromptOwnerAuth not initialized")
		}
		auth, err := (*prompter)()
		if err != nil {
			return nil, fmt.Errorf("prompt for owner authorization: %w", err)
		}
		s.ownerAuth = auth
	}

	return s, nil
}

// Setup performs one end-to-end provisioning pass: open the diagnostic
// log, power up the simulator if the transport is not hardware, acquire
// a session context, start the module up, make sure the persistent root
// key is installed, and release the context. The pass is idempotent: a
// module that is already started and already carries the root key comes
// back with ResultOK and no new key material.
//
// Setup never panics or returns an error; every failure is converted to
// a nonzero [ResultCode] with a diagnostic left in the error-capture
// slot for [Session.LastError].
func (s *Session) Setup(logName string) (rc ResultCode) {
	defer func() {
		if r := recover(); r != nil {
			rc = ResultUnclassified
			s.lastError = "setup: failed - unrecognized internal failure"
		}
		if s.log != nil {
			s.log.Info("TPM setup complete")
		}
	}()

	if err := s.provision(logName); err != nil {
		var serr *Error
		if errors.As(err, &serr) {
			s.lastError = fmt.Sprintf("setup: TPM error: %s", serr.Msg)
			return serr.Code()
		}
		s.lastError = fmt.Sprintf("setup: runtime error: %v", err)
		return ResultRuntimeError
	}
	return ResultOK
}

// provision runs the provisioning sequence. Each failure aborts the
// remaining steps; the deferred release leaves no context open behind a
// failed pass.
func (s *Session) provision(logName string) error {
	logger, err := tpmlog.New(s.cfg.Fs, tpmlog.Filename(s.cfg.DataDir, logName), s.cfg.DebugLevel)
	if err != nil {
		return fmt.Errorf("open diagnostic log: %w", err)
	}
	if s.log != nil {
		_ = s.log.Close()
	}
	s.log = logger
	s.log.Info("TPM setup started")

	s.hardware = s.cfg.Transport.Hardware()
	if !s.hardware {
		if err := s.cfg.Transport.Powerup(); err != nil {
			s.log.Info("Simulator powerup failed")
			return moduleError("Simulator powerup failed", err)
		}
	}

	ctx, err := s.cfg.Transport.NewContext()
	if err != nil {
		s.log.Info("failed to create a session context")
		return moduleError("failed to create a session context", err)
	}
	s.ctx = ctx
	defer s.releaseContext()

	if err := ctx.Startup(); err != nil && !tpmdev.IsAlreadyInitialized(err) {
		// Best effort; a module stuck mid-startup needs a reset anyway.
		_ = ctx.Shutdown()
		s.log.Info("TPM startup failed (reset the TPM)")
		return moduleError("TPM startup failed (reset the TPM)", err)
	}

	return s.ensureRootKey(ctx)
}

// ensureRootKey installs the persistent root key if the well-known
// handle is empty. At most one root key is ever created.
func (s *Session) ensureRootKey(ctx Context) error {
	if ctx.PersistentKeyExists(tpmauthn.RootKeyHandle) {
		s.log.Info("Primary key already installed")
		return nil
	}

	key, err := ctx.CreateRootKey(s.ownerAuth)
	if err != nil {
		return fmt.Errorf("create primary key: %w", err)
	}
	s.log.Info("Primary key created")

	if err := ctx.MakePersistent(key, tpmauthn.RootKeyHandle, s.ownerAuth); err != nil {
		return fmt.Errorf("make primary key persistent: %w", err)
	}
	s.log.Info("Primary key made persistent")
	return nil
}

// releaseContext releases the held context, if any, and clears the
// session's reference to it.
func (s *Session) releaseContext() {
	if s.ctx == nil {
		return
	}
	_ = s.ctx.Close()
	s.ctx = nil
}

// Connect acquires a session context for key operations. Setup releases
// the context it provisioned with, so callers connect before creating,
// loading or using keys. Connecting an already-connected session is a
// no-op.
func (s *Session) Connect() error {
	if s.ctx != nil {
		return nil
	}
	ctx, err := s.cfg.Transport.NewContext()
	if err != nil {
		return moduleError("failed to create a session context", err)
	}
	s.ctx = ctx
	return nil
}

// Connected reports whether the session holds an open context.
func (s *Session) Connected() bool {
	return s.ctx != nil
}

// LastError returns the most recently captured diagnostic and resets
// the slot to the [NoError] sentinel: a read consumes the value. Only
// the latest diagnostic is retained.
func (s *Session) LastError() string {
	err := s.lastError
	s.lastError = NoError
	return err
}

// Key returns the facade-owned key blob from the last CreateKey.
func (s *Session) Key() *tpmbuf.KeyBlob {
	return &s.key
}

// Point returns the facade-owned public point from the last CreateKey.
func (s *Session) Point() *tpmbuf.Point {
	return &s.point
}

// Signature returns the facade-owned signature from the last Sign.
func (s *Session) Signature() *tpmbuf.Signature {
	return &s.sig
}

// PutBytes copies data into the session's transient exchange buffer,
// releasing whatever it held before. Data larger than the module's
// maximum buffer size is rejected.
func (s *Session) PutBytes(data []byte) error {
	if len(data) > tpmauthn.MaxBufferSize {
		return ErrBufferTooLarge
	}
	s.scratch.Fill(data)
	return nil
}

// GetBytes returns a copy of the exchange buffer's contents.
func (s *Session) GetBytes() []byte {
	if s.scratch.IsEmpty() {
		return nil
	}
	out := make([]byte, s.scratch.Len())
	copy(out, s.scratch.Bytes())
	return out
}

// ReleaseBuffers releases every facade-owned buffer, zeroizing key
// material eagerly.
func (s *Session) ReleaseBuffers() {
	s.key.Release()
	s.point.Release()
	s.sig.Release()
	s.scratch.Release()
}

// Close tears the session down. If a context is still open the module
// is shut down and the context released before any buffers are freed;
// this ordering assumes the caller has already flushed any transient
// keys it loaded (see [Session.FlushKey]). All held buffers are
// released unconditionally.
func (s *Session) Close() error {
	if s.ctx != nil {
		_ = s.ctx.Shutdown()
		_ = s.ctx.Close()
		s.ctx = nil
	}
	s.loaded.handle = nil

	s.ReleaseBuffers()

	var err error
	if s.log != nil {
		err = s.log.Close()
		s.log = nil
	}
	return err
}
