// Copyright (c) 2026, the go-tpm-authn authors
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpmauthn holds the constants shared by the authenticator's
// TPM packages.
package tpmauthn

import "github.com/google/go-tpm/tpm2"

const (
	// MaxBufferSize is the size of TPM2B_MAX_BUFFER.
	// This value is TPM-dependent; the value here is what all TPMs support.
	// See TPM 2.0 spec, part 2, section 10.4.8 TPM2B_MAX_BUFFER.
	MaxBufferSize = 1024

	// RootKeyHandle is the well-known persistent handle of the
	// authenticator's storage root key. Provisioning creates the key at
	// most once and every later session resolves it at this handle.
	//
	// Source: TCG TPM v2.0 Provisioning Guidance v1.0, rev1.0, section 7.7
	RootKeyHandle = tpm2.TPMHandle(0x81000001)
)
