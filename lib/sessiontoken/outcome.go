// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

// Outcome is the semantic result of verifying a wire token. It is
// separate from the error return: a structurally valid token can
// still be expired or forged, and those are outcomes, not errors.
//
// The zero value is TokenRejected, so an Outcome that is never
// assigned reads as a rejection.
type Outcome uint8

const (
	// TokenRejected means the token failed verification: malformed,
	// tampered with, minted under a different key, or bound to a
	// different session.
	TokenRejected Outcome = iota

	// TokenAuthentic means the token passed every check and the
	// destination token now holds its decrypted contents.
	TokenAuthentic

	// SessionExpired means the token's expiry timestamp is not in
	// the future. Expiry is decided before any cryptographic work,
	// so an expired token reveals nothing about its authenticity.
	SessionExpired

	// BadToken is reserved for verifiers that distinguish
	// structural damage from cryptographic rejection. Verify does
	// not currently return it.
	BadToken

	// TokenRevoked is reserved for deployments that layer a
	// revocation list over stateless verification. Verify does not
	// currently return it.
	TokenRevoked
)

// String returns the outcome's name for logs and test failures.
func (o Outcome) String() string {
	switch o {
	case TokenRejected:
		return "TokenRejected"
	case TokenAuthentic:
		return "TokenAuthentic"
	case SessionExpired:
		return "SessionExpired"
	case BadToken:
		return "BadToken"
	case TokenRevoked:
		return "TokenRevoked"
	default:
		return "Outcome(unknown)"
	}
}
