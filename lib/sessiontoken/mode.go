// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

// ConfidentialityMode selects how much a token reveals about its own
// handling. The mode's literal text is a wire field and is mixed into
// both the derived encryption key and the authentication tag, so two
// tokens that differ only in mode share no key material.
//
// The zero value is ConfidentialityHigh.
type ConfidentialityMode uint8

const (
	// ConfidentialityHigh is the default mode.
	ConfidentialityHigh ConfidentialityMode = iota

	// ConfidentialityLow marks a token whose handling requirements
	// are relaxed. The cryptographic pipeline is identical; only
	// the advertised mode text differs.
	ConfidentialityLow
)

const (
	confidentialityHighText = "ConfidentialityMode::High"
	confidentialityLowText  = "ConfidentialityMode::Low"
)

// String returns the mode's canonical wire text.
func (m ConfidentialityMode) String() string {
	if m == ConfidentialityLow {
		return confidentialityLowText
	}
	return confidentialityHighText
}

// ParseConfidentialityMode decodes a wire confidentiality field. Any
// text other than the low-mode literal reads as high, so parsing is
// total. Verification derives key material from the field's exact
// wire text, not the parsed value, so a rewritten mode field still
// fails authentication; the parsed value is only what an authentic
// token commits to its receiver.
func ParseConfidentialityMode(text string) ConfidentialityMode {
	if text == confidentialityLowText {
		return ConfidentialityLow
	}
	return ConfidentialityHigh
}

// SessionBinding optionally ties a token to one session. The bound ID
// never appears on the wire: it is folded into the authentication tag
// at mint time, and the verifier must present the same binding for
// the tag to match. The zero value is the passive binding.
type SessionBinding struct {
	id    string
	bound bool
}

// PassiveBinding returns the no-op binding: the token is valid in any
// session.
func PassiveBinding() SessionBinding {
	return SessionBinding{}
}

// SessionIDBinding returns a binding that ties the token to the given
// session ID.
func SessionIDBinding(id string) SessionBinding {
	return SessionBinding{id: id, bound: true}
}

// SessionID returns the bound session ID, and whether the binding is
// active.
func (b SessionBinding) SessionID() (string, bool) {
	return b.id, b.bound
}
