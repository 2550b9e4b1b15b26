// Copyright (c) 2026, the go-tpm-authn authors
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpmlog provides the authenticator's diagnostic log: an
// append-only, level-gated sink backed by a file in the data directory.
package tpmlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/afero"
)

// Logger is a leveled diagnostic log. Records below the configured
// threshold are dropped; the rest are appended to the log file. At debug
// threshold records are additionally fanned out to stderr.
type Logger struct {
	logger *slog.Logger
	file   afero.File
	level  slog.Level
}

// Filename derives the log file path from the authenticator's data
// directory and a caller-supplied log name.
func Filename(dataDir, name string) string {
	return filepath.Join(dataDir, name)
}

// New opens (or creates) the log file at path on fs and returns a Logger
// gated at level. The file is opened in append mode so successive
// sessions extend the same log.
func New(fs afero.Fs, path string, level slog.Level) (*Logger, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})

	var logger *slog.Logger
	if level <= slog.LevelDebug {
		stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		logger = slog.New(slogmulti.Fanout(fileHandler, stderrHandler))
	} else {
		logger = slog.New(fileHandler)
	}

	return &Logger{
		logger: logger,
		file:   file,
		level:  level,
	}, nil
}

// Level returns the configured threshold.
func (l *Logger) Level() slog.Level {
	return l.level
}

// Debug appends a debug-level record. A no-op unless the threshold is at
// or below [slog.LevelDebug].
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info appends an info-level record.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn appends a warn-level record.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error appends an error-level record.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
