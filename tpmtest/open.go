// Package tpmtest provides helpers for tests that need a live TPM
// simulator.
package tpmtest

import (
	"testing"

	"github.com/openauthn/go-tpm-authn/internal/utils"
	"github.com/openauthn/go-tpm-authn/tpmdev"
)

// OpenSimulatorDevice opens a fresh TPM simulator device and registers
// its cleanup with t. An optional config overrides the defaults; its
// Kind is forced to simulator.
func OpenSimulatorDevice(t *testing.T, cfg ...*tpmdev.Config) *tpmdev.Device {
	t.Helper()
	c := utils.OptionalArgWithDefault(cfg, &tpmdev.Config{})
	c.Kind = tpmdev.Simulator
	dev, err := tpmdev.Open(c)
	if err != nil {
		t.Fatalf("could not connect to TPM simulator: %v", err)
	}
	t.Cleanup(func() {
		if err := dev.Close(); err != nil {
			t.Errorf("could not close TPM simulator: %v", err)
		}
	})
	return dev
}
