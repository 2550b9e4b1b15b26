package tpmbuf_test

import (
	"bytes"
	"testing"

	"github.com/openauthn/go-tpm-authn/tpmbuf"
)

func TestBuffer_CopyIndependence(t *testing.T) {
	a := tpmbuf.New([]byte{1, 2, 3, 4})
	b := &tpmbuf.Buffer{}
	b.Set(a)

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("copy mismatch: got %v, want %v", b.Bytes(), a.Bytes())
	}

	// Mutating the copy must not change the source.
	b.Bytes()[0] = 0xFF
	if a.Bytes()[0] != 1 {
		t.Errorf("source mutated through copy: got %v", a.Bytes())
	}

	// Releasing the source must not affect the copy.
	a.Release()
	if want := []byte{0xFF, 2, 3, 4}; !bytes.Equal(b.Bytes(), want) {
		t.Errorf("copy affected by source release: got %v, want %v", b.Bytes(), want)
	}
}

func TestBuffer_SelfSet(t *testing.T) {
	b := tpmbuf.New([]byte{5, 6, 7})
	b.Set(b)

	if want := []byte{5, 6, 7}; !bytes.Equal(b.Bytes(), want) {
		t.Errorf("self-copy changed contents: got %v, want %v", b.Bytes(), want)
	}
	if b.Len() != 3 {
		t.Errorf("self-copy changed size: got %d, want 3", b.Len())
	}
}

func TestBuffer_SetReleasesDestination(t *testing.T) {
	dst := tpmbuf.New([]byte{9, 9, 9, 9, 9})
	old := dst.Bytes()

	dst.Set(tpmbuf.New([]byte{1}))

	// The destination's prior storage must have been zeroized.
	for i, v := range old {
		if v != 0 {
			t.Errorf("old storage byte %d not zeroized: got %d", i, v)
		}
	}
	if want := []byte{1}; !bytes.Equal(dst.Bytes(), want) {
		t.Errorf("got %v, want %v", dst.Bytes(), want)
	}
}

func TestBuffer_Release(t *testing.T) {
	b := tpmbuf.New([]byte{1, 2, 3})
	stored := b.Bytes()

	b.Release()
	if !b.IsEmpty() {
		t.Error("buffer not empty after release")
	}
	for i, v := range stored {
		if v != 0 {
			t.Errorf("byte %d not zeroized: got %d", i, v)
		}
	}

	// Releasing an empty buffer is a safe no-op, repeatedly.
	b.Release()
	b.Release()
	if !b.IsEmpty() {
		t.Error("buffer not empty after repeated release")
	}
}

func TestBuffer_ZeroValue(t *testing.T) {
	var b tpmbuf.Buffer
	if !b.IsEmpty() || b.Len() != 0 {
		t.Fatal("zero value is not empty")
	}
	b.Fill([]byte{42})
	if b.Len() != 1 {
		t.Errorf("got len %d, want 1", b.Len())
	}
}

func TestKeyBlob_Release(t *testing.T) {
	kb := &tpmbuf.KeyBlob{}
	kb.Public.Fill([]byte{1})
	kb.Private.Fill([]byte{2})

	kb.Release()
	if !kb.Public.IsEmpty() || !kb.Private.IsEmpty() {
		t.Error("key blob buffers not empty after release")
	}
}

func TestSignature_Set(t *testing.T) {
	src := &tpmbuf.Signature{}
	src.R.Fill([]byte{1, 2})
	src.S.Fill([]byte{3, 4})

	dst := &tpmbuf.Signature{}
	dst.Set(src)
	src.Release()

	if !bytes.Equal(dst.R.Bytes(), []byte{1, 2}) || !bytes.Equal(dst.S.Bytes(), []byte{3, 4}) {
		t.Errorf("signature copy affected by source release: r=%v s=%v", dst.R.Bytes(), dst.S.Bytes())
	}
}
