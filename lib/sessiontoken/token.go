// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/sealkit-foundation/sealkit/lib/entropy"
	"github.com/sealkit-foundation/sealkit/lib/tai64"
)

const (
	// MaxWireSize is the largest wire string Verify accepts. Anything
	// larger is rejected before any parsing.
	MaxWireSize = 1 << 20

	// IdentifierSize is the length of the random token identifier in
	// alphanumeric characters.
	IdentifierSize = 32

	// TagSize is the authentication tag length in bytes: one BLAKE3
	// digest.
	TagSize = 32

	// DefaultLifetime is the issued-to-expiry span of a new token.
	DefaultLifetime = 24 * time.Hour

	// fieldSeparator joins the seven wire fields.
	fieldSeparator = "⊕"

	fieldCount = 7
)

// Token is a session token on the server side: either one being
// prepared for minting, or the destination a presented wire string is
// verified into. The zero value is usable as a verification
// destination; minting starts from New or NewAt.
//
// A Token is a plain mutable value and is not safe for concurrent use.
type Token struct {
	identifier      string
	issued          tai64.Time
	expiry          tai64.Time
	payload         *IdentityRecord
	confidentiality ConfidentialityMode
	tag             [TagSize]byte
	binding         SessionBinding
	source          entropy.Source
}

// New returns a token issued now with a fresh random identifier, the
// default lifetime, an empty identity record, and high
// confidentiality.
func New() (*Token, error) {
	return NewAt(time.Now(), entropy.System())
}

// NewAt is New with the issue time and randomness source supplied by
// the caller. A nil source falls back to system randomness.
func NewAt(now time.Time, source entropy.Source) (*Token, error) {
	if source == nil {
		source = entropy.System()
	}
	identifier, err := source.Alphanumeric(IdentifierSize)
	if err != nil {
		return nil, fmt.Errorf("sessiontoken: drawing identifier: %w", err)
	}
	issued := tai64.FromTime(now)
	return &Token{
		identifier: identifier,
		issued:     issued,
		expiry:     issued.Add(DefaultLifetime),
		payload:    NewIdentityRecord(),
		source:     source,
	}, nil
}

// SetIdentifier replaces the token's random identifier.
func (t *Token) SetIdentifier(identifier string) *Token {
	t.identifier = identifier
	return t
}

// SetLifetime moves the expiry to the given duration past the issue
// time.
func (t *Token) SetLifetime(lifetime time.Duration) *Token {
	t.expiry = t.issued.Add(lifetime)
	return t
}

// SetPayload replaces the token's identity record.
func (t *Token) SetPayload(record *IdentityRecord) *Token {
	t.payload = record
	return t
}

// SetConfidential selects the confidentiality mode: true for high,
// false for low.
func (t *Token) SetConfidential(confidential bool) *Token {
	if confidential {
		t.confidentiality = ConfidentialityHigh
	} else {
		t.confidentiality = ConfidentialityLow
	}
	return t
}

// SetBinding ties the token to a session. On a minting token the
// binding is folded into the tag; on a verification destination it
// states which session the presented wire string must belong to.
func (t *Token) SetBinding(binding SessionBinding) *Token {
	t.binding = binding
	return t
}

// Identifier returns the token's wire identifier.
func (t *Token) Identifier() string {
	return t.identifier
}

// Issued returns the issue timestamp.
func (t *Token) Issued() tai64.Time {
	return t.issued
}

// Expiry returns the expiry timestamp.
func (t *Token) Expiry() tai64.Time {
	return t.expiry
}

// Payload returns the token's identity record.
func (t *Token) Payload() *IdentityRecord {
	return t.payload
}

// Confidentiality returns the token's confidentiality mode.
func (t *Token) Confidentiality() ConfidentialityMode {
	return t.confidentiality
}

// Binding returns the token's session binding.
func (t *Token) Binding() SessionBinding {
	return t.binding
}

// Tag returns the authentication tag computed by the last successful
// Mint or Verify.
func (t *Token) Tag() [TagSize]byte {
	return t.tag
}

// Mint seals the token under the server key and returns the wire
// string. The identity record is encrypted under a key derived from
// the server key and the token's naming fields, and the whole wire
// content is authenticated with a keyed BLAKE3 tag. Minting a token
// whose record has no ACL entries fails with ErrEmptyACL.
func (t *Token) Mint(serverKey []byte) (string, error) {
	if len(serverKey) != KeySize {
		return "", ErrServerKeyLength
	}
	issuedHex := timestampHex(t.issued)
	expiryHex := timestampHex(t.expiry)
	modeText := t.confidentiality.String()
	key := deriveKey(serverKey, t.identifier, issuedHex, expiryHex, modeText)
	var envelope Envelope
	if err := envelope.Seal(t.payload, key[:], t.source); err != nil {
		return "", err
	}
	t.tag = computeTag(serverKey, t.identifier, issuedHex, expiryHex,
		envelope.Cipher, envelope.Nonce, modeText, t.binding)
	return strings.Join([]string{
		t.identifier,
		issuedHex,
		expiryHex,
		envelope.Cipher,
		envelope.Nonce,
		modeText,
		hex.EncodeToString(t.tag[:]),
	}, fieldSeparator), nil
}

// Verify checks a presented wire string against the server key at the
// current time. See VerifyAt.
func (t *Token) Verify(serverKey []byte, wire string) (Outcome, error) {
	return t.VerifyAt(serverKey, wire, time.Now())
}

// VerifyAt checks a presented wire string against the server key at
// the given time. On TokenAuthentic the receiver holds the token's
// decrypted contents; on any other outcome the receiver is unchanged.
// The receiver's session binding is an input: set it before calling
// when the token is expected to be session-bound.
//
// Expiry is decided from the wire timestamps alone, before any
// key-dependent work, so SessionExpired does not certify that the
// token was ever authentic. Structural damage returns TokenRejected
// with a describing error; a well-formed token that fails the tag
// comparison returns TokenRejected with a nil error.
func (t *Token) VerifyAt(serverKey []byte, wire string, now time.Time) (Outcome, error) {
	if len(wire) > MaxWireSize {
		return TokenRejected, fmt.Errorf("%w: %d bytes", ErrTokenTooLarge, len(wire))
	}
	fields := strings.Split(wire, fieldSeparator)
	if len(fields) != fieldCount {
		return TokenRejected, fmt.Errorf("%w: got %d", ErrTokenFieldCount, len(fields))
	}
	issued, err := parseTimestamp(fields[1])
	if err != nil {
		return TokenRejected, err
	}
	expiry, err := parseTimestamp(fields[2])
	if err != nil {
		return TokenRejected, err
	}
	if !expiry.After(tai64.FromTime(now)) {
		return SessionExpired, nil
	}
	if len(serverKey) != KeySize {
		return TokenRejected, ErrServerKeyLength
	}

	// Key and tag are recomputed over the fields exactly as carried
	// on the wire, so any edit to them, the mode text included,
	// changes the key or the tag and fails closed.
	key := deriveKey(serverKey, fields[0], fields[1], fields[2], fields[5])
	envelope := Envelope{Cipher: fields[3], Nonce: fields[4]}
	record, err := envelope.Open(key[:])
	if err != nil {
		return TokenRejected, err
	}

	presented, err := hex.DecodeString(fields[6])
	if err != nil {
		return TokenRejected, fmt.Errorf("%w: tag field: %v", ErrInvalidHex, err)
	}
	if len(presented) != TagSize {
		return TokenRejected, fmt.Errorf("%w: got %d bytes", ErrInvalidDigestSize, len(presented))
	}
	want := computeTag(serverKey, fields[0], fields[1], fields[2],
		fields[3], fields[4], fields[5], t.binding)
	if subtle.ConstantTimeCompare(want[:], presented) != 1 {
		return TokenRejected, nil
	}

	t.identifier = fields[0]
	t.issued = issued
	t.expiry = expiry
	t.payload = record
	t.confidentiality = ParseConfidentialityMode(fields[5])
	copy(t.tag[:], presented)
	return TokenAuthentic, nil
}

// timestampHex encodes a timestamp as its hex TAI64N wire field.
func timestampHex(stamp tai64.Time) string {
	raw := stamp.Bytes()
	return hex.EncodeToString(raw[:])
}

// parseTimestamp decodes a hex TAI64N wire field.
func parseTimestamp(field string) (tai64.Time, error) {
	raw, err := hex.DecodeString(field)
	if err != nil {
		return tai64.Time{}, fmt.Errorf("%w: timestamp field: %v", ErrInvalidHex, err)
	}
	stamp, err := tai64.FromBytes(raw)
	if err != nil {
		return tai64.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	return stamp, nil
}

// newKeyed returns a keyed BLAKE3 hasher. NewKeyed only fails for a
// wrong key length, which the callers guard.
func newKeyed(serverKey []byte) *blake3.Hasher {
	hasher, err := blake3.NewKeyed(serverKey)
	if err != nil {
		panic("sessiontoken: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

// deriveKey computes the envelope key for one token: a keyed BLAKE3
// digest of the naming fields under the server key. Every token gets
// its own envelope key, so a keystream is never reused across tokens
// even when nonces collide.
func deriveKey(serverKey []byte, identifier, issuedHex, expiryHex, confidentialityText string) [KeySize]byte {
	hasher := newKeyed(serverKey)
	hasher.Write([]byte(identifier))
	hasher.Write([]byte(issuedHex))
	hasher.Write([]byte(expiryHex))
	hasher.Write([]byte(confidentialityText))
	var key [KeySize]byte
	copy(key[:], hasher.Sum(nil))
	return key
}

// computeTag computes the authentication tag: a keyed BLAKE3 digest
// over the six wire fields preceding it, plus the bound session ID
// when the binding is active.
func computeTag(serverKey []byte, identifier, issuedHex, expiryHex, cipherHex, nonce, confidentialityText string, binding SessionBinding) [TagSize]byte {
	hasher := newKeyed(serverKey)
	hasher.Write([]byte(identifier))
	hasher.Write([]byte(issuedHex))
	hasher.Write([]byte(expiryHex))
	hasher.Write([]byte(cipherHex))
	hasher.Write([]byte(nonce))
	hasher.Write([]byte(confidentialityText))
	if id, bound := binding.SessionID(); bound {
		hasher.Write([]byte(id))
	}
	var tag [TagSize]byte
	copy(tag[:], hasher.Sum(nil))
	return tag
}
