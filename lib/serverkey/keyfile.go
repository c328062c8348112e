// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package serverkey

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sealkit-foundation/sealkit/lib/secret"
)

// Size is the server key length in bytes.
const Size = 32

// keyFile is the key's fixed file name inside the state directory.
const keyFile = "session-server-key"

// Generate creates a new random server key in locked memory.
//
// The caller must call Close on the returned buffer when done.
func Generate() (*secret.Buffer, error) {
	key, err := secret.New(Size)
	if err != nil {
		return nil, fmt.Errorf("allocating server key: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, key.Bytes()); err != nil {
		key.Close()
		return nil, fmt.Errorf("generating server key: %w", err)
	}
	return key, nil
}

// Save writes the server key to the state directory. The key file has
// 0600 permissions.
func Save(stateDir string, key *secret.Buffer) error {
	if key.Len() != Size {
		return fmt.Errorf("server key has %d bytes, want %d", key.Len(), Size)
	}
	path := filepath.Join(stateDir, keyFile)
	if err := os.WriteFile(path, key.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing server key: %w", err)
	}
	return nil
}

// Load reads the server key from the state directory into locked
// memory. Returns an error if the file is missing or has an
// unexpected size.
func Load(stateDir string) (*secret.Buffer, error) {
	path := filepath.Join(stateDir, keyFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading server key: %w", err)
	}
	if len(raw) != Size {
		secret.Zero(raw)
		return nil, fmt.Errorf("server key has %d bytes, want %d", len(raw), Size)
	}
	key, err := secret.NewFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("protecting server key: %w", err)
	}
	return key, nil
}

// LoadOrGenerate loads an existing server key from stateDir, or
// generates and saves a new one if the file does not exist. Returns
// the key and whether it was newly generated.
func LoadOrGenerate(stateDir string) (*secret.Buffer, bool, error) {
	key, err := Load(stateDir)
	if err == nil {
		return key, false, nil
	}

	// Distinguish a missing file (expected on first boot) from
	// corruption or a permission problem.
	path := filepath.Join(stateDir, keyFile)
	if _, statErr := os.Stat(path); statErr == nil {
		return nil, false, err
	}

	key, err = Generate()
	if err != nil {
		return nil, false, err
	}
	if err := Save(stateDir, key); err != nil {
		key.Close()
		return nil, false, err
	}
	return key, true, nil
}
