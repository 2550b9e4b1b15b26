// Copyright (c) 2026, the go-tpm-authn authors
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpmcrypto converts between TPM public-area structures and Go
// crypto types.
package tpmcrypto

import (
	"crypto"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/go-tpm/tpm2"
)

var (
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")
	ErrNotECC          = errors.New("public area does not hold an ECC key")
)

// hashInfo maps Go crypto.Hash values to TPM hash algorithms.
var hashInfo = []struct {
	Alg  tpm2.TPMAlgID
	Hash crypto.Hash
}{
	{tpm2.TPMAlgSHA1, crypto.SHA1},
	{tpm2.TPMAlgSHA256, crypto.SHA256},
	{tpm2.TPMAlgSHA384, crypto.SHA384},
	{tpm2.TPMAlgSHA512, crypto.SHA512},
}

// HashToAlgorithm looks up the TPM algorithm identifier for a Go hash.
func HashToAlgorithm(hash crypto.Hash) (tpm2.TPMAlgID, error) {
	for _, info := range hashInfo {
		if info.Hash == hash {
			return info.Alg, nil
		}
	}
	return tpm2.TPMAlgNull, fmt.Errorf("%w: %v", ErrUnsupportedHash, hash)
}

// PublicKey extracts the public key from a [tpm2.TPM2BPublic] or
// [tpm2.TPMTPublic] structure.
//
// Note: pointers to these structures are also accepted.
func PublicKey(public any) (crypto.PublicKey, error) {
	var (
		pub         *tpm2.TPMTPublic
		errContents error
	)
	switch p := public.(type) {
	case *tpm2.TPM2BPublic:
		pub, errContents = p.Contents()
	case tpm2.TPM2BPublic:
		pub, errContents = p.Contents()
	case *tpm2.TPMTPublic:
		pub = p
	case tpm2.TPMTPublic:
		pub = &p
	default:
		return nil, fmt.Errorf("unsupported type: %T", public)
	}
	if errContents != nil {
		return nil, fmt.Errorf("failed to get public contents: %w", errContents)
	}

	return tpm2.Pub(*pub)
}

// PublicKeyECDSA extracts the ECDSA public key from a
// [tpm2.TPM2BPublic] or [tpm2.TPMTPublic] structure.
func PublicKeyECDSA(public any) (*ecdsa.PublicKey, error) {
	pub, err := PublicKey(public)
	if err != nil {
		return nil, err
	}

	eccPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("expected ECDSA public key, got %T", pub)
	}
	return eccPub, nil
}

// ECCPoint returns the affine public point held in an ECC public area.
func ECCPoint(pub *tpm2.TPMTPublic) (*tpm2.TPMSECCPoint, error) {
	if pub.Type != tpm2.TPMAlgECC {
		return nil, ErrNotECC
	}
	point, err := pub.Unique.ECC()
	if err != nil {
		return nil, fmt.Errorf("failed to get ECC unique area: %w", err)
	}
	return point, nil
}

// VerifyECDSA checks an (r, s) signature over digest against an ECDSA
// public key. The components are big-endian byte strings as returned by
// TPM2_Sign.
func VerifyECDSA(pub *ecdsa.PublicKey, digest, r, s []byte) bool {
	return ecdsa.Verify(pub,
		digest,
		new(big.Int).SetBytes(r),
		new(big.Int).SetBytes(s))
}
