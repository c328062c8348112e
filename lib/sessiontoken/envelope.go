// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/chacha20"

	"github.com/sealkit-foundation/sealkit/lib/entropy"
)

const (
	// KeySize is the envelope key length in bytes. The server key
	// and every key derived from it share this size.
	KeySize = chacha20.KeySize

	// NonceSize is the envelope nonce length: 12 alphanumeric
	// characters, used byte-for-byte as the keystream nonce.
	NonceSize = chacha20.NonceSize
)

// Envelope is the encrypted carrier of an identity record: the hex
// ciphertext and the nonce it was produced under. Authenticity is not
// the envelope's job; the token's tag covers both fields.
type Envelope struct {
	Cipher string
	Nonce  string
}

// Seal serializes the record, draws a fresh nonce from the source,
// and encrypts the record text under the key, leaving the hex
// ciphertext and the nonce in the envelope. A nil source falls back
// to system randomness.
func (e *Envelope) Seal(record *IdentityRecord, key []byte, source entropy.Source) error {
	if len(key) != KeySize {
		return ErrServerKeyLength
	}
	if record == nil {
		return ErrEmptyACL
	}
	plaintext, err := record.Serialize()
	if err != nil {
		return err
	}
	if source == nil {
		source = entropy.System()
	}
	nonce, err := source.Alphanumeric(NonceSize)
	if err != nil {
		return fmt.Errorf("sessiontoken: drawing nonce: %w", err)
	}
	cipher, err := chacha20.NewUnauthenticatedCipher(key, []byte(nonce))
	if err != nil {
		return fmt.Errorf("sessiontoken: initializing cipher: %w", err)
	}
	buf := []byte(plaintext)
	cipher.XORKeyStream(buf, buf)
	e.Cipher = hex.EncodeToString(buf)
	e.Nonce = nonce
	return nil
}

// Open decrypts the envelope under the key and parses the record. A
// fresh cipher starts its keystream at block zero, the same position
// Seal encrypted from. Open checks structure only; callers must not
// trust the result until the token's tag comparison has passed.
func (e *Envelope) Open(key []byte) (*IdentityRecord, error) {
	if len(key) != KeySize {
		return nil, ErrServerKeyLength
	}
	raw, err := hex.DecodeString(e.Cipher)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext field: %v", ErrInvalidHex, err)
	}
	if len(e.Nonce) != NonceSize {
		return nil, ErrNonceLength
	}
	cipher, err := chacha20.NewUnauthenticatedCipher(key, []byte(e.Nonce))
	if err != nil {
		return nil, fmt.Errorf("sessiontoken: initializing cipher: %w", err)
	}
	cipher.XORKeyStream(raw, raw)
	if !utf8.Valid(raw) {
		return nil, ErrInvalidUTF8
	}
	return ParseIdentityRecord(string(raw))
}
