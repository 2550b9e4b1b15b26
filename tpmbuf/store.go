package tpmbuf

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// marshaledKeyBlob is the JSON representation of [KeyBlob].
type marshaledKeyBlob struct {
	Public  []byte `json:"public"`
	Private []byte `json:"private"`
}

// Marshal serializes the KeyBlob to JSON for storage in the
// authenticator's data directory.
func (kb *KeyBlob) Marshal() ([]byte, error) {
	return json.Marshal(marshaledKeyBlob{
		Public:  kb.Public.Bytes(),
		Private: kb.Private.Bytes(),
	})
}

// Unmarshal replaces the KeyBlob's contents with the blob's, releasing
// any prior storage.
func (kb *KeyBlob) Unmarshal(data []byte) error {
	var m marshaledKeyBlob
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	kb.Public.Fill(m.Public)
	kb.Private.Fill(m.Private)
	return nil
}

// SaveKeyBlob writes a KeyBlob to path. The file is created with 0600
// permissions; the private blob is TPM-wrapped but still kept out of
// reach of other users.
func SaveKeyBlob(fs afero.Fs, path string, kb *KeyBlob) error {
	data, err := kb.Marshal()
	if err != nil {
		return fmt.Errorf("marshal key blob: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("write key blob: %w", err)
	}
	return nil
}

// LoadKeyBlob reads a KeyBlob previously written by [SaveKeyBlob].
func LoadKeyBlob(fs afero.Fs, path string) (*KeyBlob, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read key blob: %w", err)
	}
	kb := &KeyBlob{}
	if err := kb.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("unmarshal key blob: %w", err)
	}
	return kb, nil
}
