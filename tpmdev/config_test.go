package tpmdev_test

import (
	"errors"
	"testing"

	"github.com/openauthn/go-tpm-authn/tpmdev"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &tpmdev.Config{}
	if err := cfg.CheckAndSetDefault(); err != nil {
		t.Fatalf("CheckAndSetDefault failed: %v", err)
	}
	if cfg.Kind != tpmdev.Hardware {
		t.Errorf("default kind: got %v, want %v", cfg.Kind, tpmdev.Hardware)
	}
	if cfg.DevicePath != "/dev/tpmrm0" {
		t.Errorf("default device path: got %q, want /dev/tpmrm0", cfg.DevicePath)
	}
	if cfg.MaxOpenTries != 3 {
		t.Errorf("default max open tries: got %d, want 3", cfg.MaxOpenTries)
	}
}

func TestConfig_InvalidKind(t *testing.T) {
	cfg := &tpmdev.Config{Kind: tpmdev.Kind(42)}
	err := cfg.CheckAndSetDefault()
	if !errors.Is(err, tpmdev.ErrInvalidKind) {
		t.Errorf("got %v, want ErrInvalidKind", err)
	}
}

func TestKind_String(t *testing.T) {
	if got := tpmdev.Simulator.String(); got != "simulator" {
		t.Errorf("got %q, want %q", got, "simulator")
	}
	if got := tpmdev.Hardware.String(); got != "hardware" {
		t.Errorf("got %q, want %q", got, "hardware")
	}
}
