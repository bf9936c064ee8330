package glulx

// Optional at-rest protection for save files (SPEC_FULL.md §4.7). This
// wraps the finished IFZS byte stream the save codec produces; it never
// changes chunk semantics and is skipped entirely when no passphrase is
// configured, so existing unprotected saves are unaffected.

import (
	"crypto/rand"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var envelopeMagic = [4]byte{'G', 'S', 'Z', '1'}

const (
	envelopeSaltLen  = 16
	envelopeNonceLen = 12
)

// SetSavePassphrase configures (or clears, with an empty string) the
// passphrase used to encrypt save files written through execSave and
// decrypt ones read through execRestore. It has no effect on saveundo,
// which never touches a file.
func (e *Engine) SetSavePassphrase(passphrase string) {
	if passphrase == "" {
		e.savePassphrase = nil
		return
	}
	e.savePassphrase = []byte(passphrase)
}

func deriveEnvelopeKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

// encryptEnvelope seals plain inside the GSZ1 envelope described in
// SPEC_FULL.md §4.7.
func encryptEnvelope(passphrase, plain []byte) ([]byte, error) {
	salt := make([]byte, envelopeSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, envelopeNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	key := deriveEnvelopeKey(passphrase, salt)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	ciphertext := aead.Seal(nil, nonce, plain, nil)

	out := make([]byte, 0, 4+envelopeSaltLen+envelopeNonceLen+len(ciphertext))
	out = append(out, envelopeMagic[:]...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// decryptEnvelope reverses encryptEnvelope. A wrong passphrase fails the
// AEAD tag check and returns ErrSaveAuthFailed without modifying any
// engine state, matching the category-1 validation-error rule of §7.
func decryptEnvelope(passphrase, envelope []byte) ([]byte, error) {
	hdrLen := 4 + envelopeSaltLen + envelopeNonceLen
	if len(envelope) < hdrLen || [4]byte(envelope[:4]) != envelopeMagic {
		return nil, ErrBadSaveFile
	}
	salt := envelope[4 : 4+envelopeSaltLen]
	nonce := envelope[4+envelopeSaltLen : hdrLen]
	ciphertext := envelope[hdrLen:]

	key := deriveEnvelopeKey(passphrase, salt)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSaveAuthFailed
	}
	return plain, nil
}

// isEnvelope reports whether data begins with the GSZ1 envelope magic, to
// distinguish a protected save from a plain IFZS one on restore.
func isEnvelope(data []byte) bool {
	return len(data) >= 4 && [4]byte(data[:4]) == envelopeMagic
}
