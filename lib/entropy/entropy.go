// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package entropy

import (
	"crypto/rand"
	"fmt"
)

// Alphabet is the character set every draw is built from.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Source produces random fixed-length strings over Alphabet.
type Source interface {
	// Alphanumeric returns a fresh string of exactly length
	// characters from Alphabet.
	Alphanumeric(length int) (string, error)
}

// System returns the production Source, backed by crypto/rand.
func System() Source { return systemSource{} }

type systemSource struct{}

func (systemSource) Alphanumeric(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("entropy: length must be positive, got %d", length)
	}

	out := make([]byte, 0, length)
	raw := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("entropy: reading random bytes: %w", err)
		}
		for _, b := range raw {
			// Rejection sampling: 252 is the largest multiple of
			// len(Alphabet) that fits in a byte, so values at or
			// above it would bias the low characters.
			if b >= 252 {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
