// Copyright (c) 2026, the go-tpm-authn authors
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tpmbuf provides owned byte buffers for sensitive material
// exchanged with the TPM.
//
// A Buffer owns its storage exclusively: copying duplicates the bytes and
// releasing zeroizes them. Key blobs, public points and signatures returned
// by TPM operations are held in Buffers so that secret material can be
// cleared eagerly instead of lingering until garbage collection.
package tpmbuf

// Buffer is an owned, variable-length byte region.
//
// The zero value is an empty Buffer and is ready for use. An empty Buffer
// owns no storage; a non-empty Buffer never aliases another Buffer's
// storage.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	data []byte
}

// New returns a Buffer owning a copy of b.
func New(b []byte) *Buffer {
	buf := &Buffer{}
	buf.Fill(b)
	return buf
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int {
	return len(b.data)
}

// IsEmpty reports whether the Buffer holds no storage.
func (b *Buffer) IsEmpty() bool {
	return len(b.data) == 0
}

// Bytes returns the owned storage. The slice remains owned by the Buffer;
// callers must not retain it across a Release or Set.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Fill replaces the contents with a copy of raw, releasing any prior
// storage first. An empty raw leaves the Buffer empty.
func (b *Buffer) Fill(raw []byte) {
	b.Release()
	if len(raw) == 0 {
		return
	}
	b.data = make([]byte, len(raw))
	copy(b.data, raw)
}

// Set copies src into b. Any storage previously held by b is released
// before the copy. Setting a Buffer to itself is a no-op.
func (b *Buffer) Set(src *Buffer) {
	if b == src {
		return
	}
	b.Fill(src.data)
}

// Clone returns an independent copy of the Buffer.
func (b *Buffer) Clone() *Buffer {
	return New(b.data)
}

// Release zeroizes the owned storage and resets the Buffer to empty.
// Releasing an empty Buffer is a no-op. The Buffer may be reused
// afterwards.
func (b *Buffer) Release() {
	if len(b.data) == 0 {
		b.data = nil
		return
	}
	for i := range b.data {
		b.data[i] = 0
	}
	b.data = nil
}
