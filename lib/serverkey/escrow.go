// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package serverkey

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/sealkit-foundation/sealkit/lib/secret"
)

// EscrowIdentity is an age x25519 identity that escrowed server keys
// can be recovered with. The private key lives in locked memory; the
// public key is a plain string, safe to publish, and is what Seal
// encrypts to.
//
// The caller must call Close when the identity is no longer needed.
type EscrowIdentity struct {
	PrivateKey *secret.Buffer
	PublicKey  string
}

// Close releases the private key memory. Idempotent.
func (e *EscrowIdentity) Close() error {
	if e.PrivateKey != nil {
		return e.PrivateKey.Close()
	}
	return nil
}

// GenerateEscrowIdentity creates a new age x25519 identity for server
// key escrow.
func GenerateEscrowIdentity() (*EscrowIdentity, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating escrow identity: %w", err)
	}

	// Move the private key string into locked memory immediately. The
	// heap copy NewFromBytes is handed is zeroed by it; the string
	// age returned is GC'd.
	privateKey, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting escrow identity: %w", err)
	}

	return &EscrowIdentity{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// LoadIdentity reads an age identity from a file, or from stdin when
// path is "-", into locked memory and validates it.
func LoadIdentity(path string) (*EscrowIdentity, error) {
	privateKey, err := secret.ReadFromPath(path)
	if err != nil {
		return nil, err
	}
	identity, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		privateKey.Close()
		return nil, fmt.Errorf("invalid escrow identity: %w", err)
	}
	return &EscrowIdentity{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// Seal encrypts the server key to one or more escrow recipients given
// by their age public key strings. Returns the ciphertext as a base64
// string suitable for offline storage.
//
// At least one recipient is required.
func Seal(key *secret.Buffer, recipientKeys []string) (string, error) {
	if key.Len() != Size {
		return "", fmt.Errorf("server key has %d bytes, want %d", key.Len(), Size)
	}
	if len(recipientKeys) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, publicKey := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(publicKey)
		if err != nil {
			return "", fmt.Errorf("parsing recipient key %q: %w", publicKey, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(key.Bytes()); err != nil {
		return "", fmt.Errorf("writing server key to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing age encryption: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// Unseal decrypts a base64 escrow ciphertext with the private key and
// returns the recovered server key in locked memory. Anything other
// than an exact server key inside the ciphertext is an error.
//
// The private key is borrowed and is not closed. The caller must call
// Close on the returned buffer when done.
func Unseal(ciphertext string, privateKey *secret.Buffer) (*secret.Buffer, error) {
	identity, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		return nil, fmt.Errorf("parsing escrow identity: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 ciphertext: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(raw), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting escrowed key: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading escrowed key: %w", err)
	}
	if len(plaintext) != Size {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("escrowed key has %d bytes, want %d", len(plaintext), Size)
	}

	key, err := secret.NewFromBytes(plaintext)
	if err != nil {
		return nil, fmt.Errorf("protecting recovered key: %w", err)
	}
	return key, nil
}
