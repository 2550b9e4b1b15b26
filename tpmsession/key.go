package tpmsession

import (
	"fmt"
	"path/filepath"

	"github.com/google/go-tpm/tpm2"

	tpmauthn "github.com/openauthn/go-tpm-authn"
	"github.com/openauthn/go-tpm-authn/tpmbuf"
	"github.com/openauthn/go-tpm-authn/tpmcrypto"
)

// UserKeyTemplate is the public area of authenticator signing keys:
// a non-duplicable ECDSA P-256 key restricted to SHA-256, created under
// the persistent root key with its sensitive data originating inside
// the TPM. Attributes follow the TCG DevID recommendations
// (TCG TPM 2.0 Keys for Device Identity and Attestation, section 7.3.4).
var UserKeyTemplate = tpm2.TPMTPublic{
	Type:    tpm2.TPMAlgECC,
	NameAlg: tpm2.TPMAlgSHA256,
	ObjectAttributes: tpm2.TPMAObject{
		FixedTPM:            true,
		FixedParent:         true,
		SensitiveDataOrigin: true,
		UserWithAuth:        true,
		SignEncrypt:         true,
	},
	Parameters: tpm2.NewTPMUPublicParms(
		tpm2.TPMAlgECC,
		&tpm2.TPMSECCParms{
			Scheme: tpm2.TPMTECCScheme{
				Scheme: tpm2.TPMAlgECDSA,
				Details: tpm2.NewTPMUAsymScheme(
					tpm2.TPMAlgECDSA,
					&tpm2.TPMSSigSchemeECDSA{
						HashAlg: tpm2.TPMAlgSHA256,
					},
				),
			},
			CurveID: tpm2.TPMECCNistP256,
		},
	),
	Unique: tpm2.NewTPMUPublicID(
		tpm2.TPMAlgECC,
		&tpm2.TPMSECCPoint{
			X: tpm2.TPM2BECCParameter{Buffer: make([]byte, 32)},
			Y: tpm2.TPM2BECCParameter{Buffer: make([]byte, 32)},
		},
	),
}

// loadedKey tracks the transient object a LoadKey left in the module.
type loadedKey struct {
	handle *tpm2.NamedHandle
}

// rootKey resolves the persistent root key into a named handle usable
// as a parent for key operations.
func (s *Session) rootKey() (*tpm2.NamedHandle, error) {
	rsp, err := tpm2.ReadPublic{
		ObjectHandle: tpmauthn.RootKeyHandle,
	}.Execute(s.ctx.TPM())
	if err != nil {
		return nil, fmt.Errorf("read root key public area: %w", err)
	}
	return &tpm2.NamedHandle{Handle: tpmauthn.RootKeyHandle, Name: rsp.Name}, nil
}

// CreateKey creates a signing key under the persistent root key from
// [UserKeyTemplate] and captures the result in the session's buffers:
// the wrapped blob in [Session.Key] and the public point in
// [Session.Point]. The key is not loaded; pass the blob to
// [Session.LoadKey] before signing.
func (s *Session) CreateKey(userAuth []byte) error {
	if s.ctx == nil {
		return ErrNotConnected
	}
	parent, err := s.rootKey()
	if err != nil {
		return err
	}

	rsp, err := tpm2.Create{
		ParentHandle: parent,
		InSensitive: tpm2.TPM2BSensitiveCreate{
			Sensitive: &tpm2.TPMSSensitiveCreate{
				UserAuth: tpm2.TPM2BAuth{Buffer: userAuth},
			},
		},
		InPublic: tpm2.New2B(UserKeyTemplate),
	}.Execute(s.ctx.TPM())
	if err != nil {
		return fmt.Errorf("Create failed: %w", err)
	}

	pub, err := rsp.OutPublic.Contents()
	if err != nil {
		return fmt.Errorf("failed to get public contents: %w", err)
	}
	point, err := tpmcrypto.ECCPoint(pub)
	if err != nil {
		return err
	}

	s.key.Public.Fill(tpm2.Marshal(*pub))
	s.key.Private.Fill(rsp.OutPrivate.Buffer)
	s.point.X.Fill(point.X.Buffer)
	s.point.Y.Fill(point.Y.Buffer)
	return nil
}

// LoadKey loads the held key blob into the module. A previously loaded
// key is flushed first; the module holds at most one session key.
func (s *Session) LoadKey() error {
	if s.ctx == nil {
		return ErrNotConnected
	}
	if s.key.Public.IsEmpty() || s.key.Private.IsEmpty() {
		return ErrNoKeyHeld
	}
	parent, err := s.rootKey()
	if err != nil {
		return err
	}
	if s.loaded.handle != nil {
		if err := s.FlushKey(); err != nil {
			return err
		}
	}

	rsp, err := tpm2.Load{
		ParentHandle: parent,
		InPrivate:    tpm2.TPM2BPrivate{Buffer: s.key.Private.Bytes()},
		InPublic:     tpm2.BytesAs2B[tpm2.TPMTPublic](s.key.Public.Bytes()),
	}.Execute(s.ctx.TPM())
	if err != nil {
		return fmt.Errorf("Load failed: %w", err)
	}

	s.loaded.handle = &tpm2.NamedHandle{Handle: rsp.ObjectHandle, Name: rsp.Name}
	return nil
}

// Sign signs a SHA-256 digest with the loaded key and captures the raw
// (r, s) components in [Session.Signature].
func (s *Session) Sign(digest, userAuth []byte) error {
	if s.ctx == nil {
		return ErrNotConnected
	}
	if s.loaded.handle == nil {
		return ErrNoKeyLoaded
	}

	rsp, err := tpm2.Sign{
		KeyHandle: tpm2.AuthHandle{
			Handle: s.loaded.handle.Handle,
			Name:   s.loaded.handle.Name,
			Auth:   tpm2.PasswordAuth(userAuth),
		},
		Digest: tpm2.TPM2BDigest{Buffer: digest},
		InScheme: tpm2.TPMTSigScheme{
			Scheme: tpm2.TPMAlgECDSA,
			Details: tpm2.NewTPMUSigScheme(
				tpm2.TPMAlgECDSA,
				&tpm2.TPMSSchemeHash{
					HashAlg: tpm2.TPMAlgSHA256,
				},
			),
		},
		Validation: tpm2.TPMTTKHashCheck{
			Tag: tpm2.TPMSTHashCheck,
		},
	}.Execute(s.ctx.TPM())
	if err != nil {
		return fmt.Errorf("Sign failed: %w", err)
	}

	sig, err := rsp.Signature.Signature.ECDSA()
	if err != nil {
		return fmt.Errorf("failed to get ECDSA signature: %w", err)
	}
	s.sig.R.Fill(sig.SignatureR.Buffer)
	s.sig.S.Fill(sig.SignatureS.Buffer)
	return nil
}

// SaveKey writes the held key blob under the data directory so a later
// session can restore and reload it.
func (s *Session) SaveKey(name string) error {
	if s.key.Public.IsEmpty() || s.key.Private.IsEmpty() {
		return ErrNoKeyHeld
	}
	return tpmbuf.SaveKeyBlob(s.cfg.Fs, filepath.Join(s.cfg.DataDir, name), &s.key)
}

// RestoreKey replaces the held key blob with one previously written by
// [Session.SaveKey]. The key is not loaded; call [Session.LoadKey].
func (s *Session) RestoreKey(name string) error {
	kb, err := tpmbuf.LoadKeyBlob(s.cfg.Fs, filepath.Join(s.cfg.DataDir, name))
	if err != nil {
		return err
	}
	s.key.Set(kb)
	kb.Release()
	return nil
}

// FlushKey removes the loaded key from the module and clears the
// loaded-key slot. Flushing when nothing is loaded is a no-op.
func (s *Session) FlushKey() error {
	if s.loaded.handle == nil {
		return nil
	}
	if s.ctx == nil {
		return ErrNotConnected
	}
	err := s.ctx.Flush(s.loaded.handle)
	s.loaded.handle = nil
	return err
}
