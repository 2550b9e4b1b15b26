// Copyright (c) 2026, the go-tpm-authn authors
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpmdev opens the connection to a TPM device or simulator and
// hands out session contexts over it.
//
// A Device represents the physical (or simulated) module and is opened
// once per authenticator. A Context is a logical command channel over an
// open Device; contexts are cheap, short-lived, and releasing one leaves
// the Device open.
package tpmdev

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/go-tpm-tools/simulator"
)

// Device is an open connection to a TPM device or simulator.
//
// Device is not safe for concurrent use; the authenticator drives it
// from a single logical session.
type Device struct {
	cfg *Config
	rw  io.ReadWriteCloser
	// sim is set only in simulator mode, where power control is ours.
	sim *simulator.Simulator
}

// Open connects to the TPM selected by cfg. Transient open failures
// (the character device reporting busy, the simulator still tearing
// down a prior instance) are retried with exponential backoff.
//
// Note: If cfg is nil, default configuration is used.
func Open(cfg *Config) (*Device, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.CheckAndSetDefault(); err != nil {
		return nil, err
	}

	open := func() (io.ReadWriteCloser, error) {
		if cfg.Kind == Simulator {
			return simulator.Get()
		}
		return os.OpenFile(cfg.DevicePath, os.O_RDWR, 0)
	}

	rw, err := backoff.Retry(context.Background(), open,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(cfg.MaxOpenTries))
	if err != nil {
		return nil, fmt.Errorf("open %s TPM: %w", cfg.Kind, err)
	}

	d := &Device{cfg: cfg, rw: rw}
	if sim, ok := rw.(*simulator.Simulator); ok {
		d.sim = sim
	}
	return d, nil
}

// Hardware reports whether the device is a hardware TPM. Power control
// is only available on the simulator; a hardware module is powered by
// the platform.
func (d *Device) Hardware() bool {
	return d.cfg.Kind == Hardware
}

// Powerup power-cycles the simulator into a clean power-on state, as if
// the host had rebooted. NV storage survives; transient state does not,
// and TPM2_Startup must be issued before further commands.
func (d *Device) Powerup() error {
	if d.rw == nil {
		return ErrDeviceClosed
	}
	if d.sim == nil {
		return ErrNotSimulator
	}
	return d.sim.Reset()
}

// NewContext returns a fresh session context over the open device.
// Every context must be released with [Context.Close].
func (d *Device) NewContext() (*Context, error) {
	if d.rw == nil {
		return nil, ErrDeviceClosed
	}
	return newContext(d.rw), nil
}

// Close closes the connection to the device. Contexts handed out
// earlier must not be used afterwards.
func (d *Device) Close() error {
	if d.rw == nil {
		return nil
	}
	err := d.rw.Close()
	d.rw = nil
	d.sim = nil
	return err
}
