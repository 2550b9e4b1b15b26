package tpmlog_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/openauthn/go-tpm-authn/tpmlog"
)

func TestLogger_WritesToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := tpmlog.Filename("/data", "test.log")

	logger, err := tpmlog.New(fs, path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("TPM setup started")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), "TPM setup started") {
		t.Errorf("log missing record, got: %q", content)
	}
}

func TestLogger_ThresholdGate(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := tpmlog.Filename("/data", "test.log")

	logger, err := tpmlog.New(fs, path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("below threshold")
	logger.Info("at threshold")
	logger.Close()

	content, _ := afero.ReadFile(fs, path)
	if strings.Contains(string(content), "below threshold") {
		t.Error("debug record not suppressed at info threshold")
	}
	if !strings.Contains(string(content), "at threshold") {
		t.Error("info record missing")
	}
}

func TestLogger_Append(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := tpmlog.Filename("/data", "test.log")

	for _, msg := range []string{"first session", "second session"} {
		logger, err := tpmlog.New(fs, path, slog.LevelInfo)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		logger.Info(msg)
		logger.Close()
	}

	content, _ := afero.ReadFile(fs, path)
	if !strings.Contains(string(content), "first session") || !strings.Contains(string(content), "second session") {
		t.Errorf("log not appended across sessions, got: %q", content)
	}
}
