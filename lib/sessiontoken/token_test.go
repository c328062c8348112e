// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"bytes"
	"encoding/hex"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/sealkit-foundation/sealkit/lib/entropy"
	"github.com/sealkit-foundation/sealkit/lib/tai64"
)

const (
	testIdentifier = "k3jv09zqb2m8x1c4n7w5d0f6g2h9j4l1"
	testNonce      = "q8r2t7y4u1o6"
)

var testIssue = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testServerKey(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, KeySize)
}

func testToken(t *testing.T) *Token {
	t.Helper()
	token, err := NewAt(testIssue, entropy.Fake(testIdentifier, testNonce))
	if err != nil {
		t.Fatalf("NewAt: %v", err)
	}
	token.SetPayload(NewIdentityRecord().
		SetUsername("foo_user").
		SetRole(RoleSuperUser).
		SetTag("Foo-Tag").
		AddACL("Network-TCP").
		AddACL("Network-UDP"))
	return token
}

func testWire(t *testing.T) string {
	t.Helper()
	wire, err := testToken(t).Mint(testServerKey(0))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	return wire
}

func replaceField(t *testing.T, wire string, index int, value string) string {
	t.Helper()
	fields := strings.Split(wire, fieldSeparator)
	if len(fields) != fieldCount {
		t.Fatalf("wire has %d fields, want %d", len(fields), fieldCount)
	}
	fields[index] = value
	return strings.Join(fields, fieldSeparator)
}

// flipHexDigit changes the first digit of a hex field.
func flipHexDigit(field string) string {
	if field[0] == '0' {
		return "1" + field[1:]
	}
	return "0" + field[1:]
}

func TestMintVerify_Authentic(t *testing.T) {
	wire := testWire(t)

	var presented Token
	outcome, err := presented.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil {
		t.Fatalf("VerifyAt: %v", err)
	}
	if outcome != TokenAuthentic {
		t.Fatalf("outcome = %v, want TokenAuthentic", outcome)
	}

	if presented.Identifier() != testIdentifier {
		t.Errorf("Identifier = %q, want %q", presented.Identifier(), testIdentifier)
	}
	if presented.Issued().Compare(tai64.FromTime(testIssue)) != 0 {
		t.Errorf("Issued = %v, want %v", presented.Issued(), tai64.FromTime(testIssue))
	}
	wantExpiry := tai64.FromTime(testIssue).Add(DefaultLifetime)
	if presented.Expiry().Compare(wantExpiry) != 0 {
		t.Errorf("Expiry = %v, want %v", presented.Expiry(), wantExpiry)
	}
	if presented.Confidentiality() != ConfidentialityHigh {
		t.Errorf("Confidentiality = %v, want High", presented.Confidentiality())
	}

	record := presented.Payload()
	if record == nil {
		t.Fatal("Payload is nil after authentic verify")
	}
	if record.Username() != "foo_user" {
		t.Errorf("Username = %q, want foo_user", record.Username())
	}
	if record.Role() != RoleSuperUser {
		t.Errorf("Role = %q, want SuperUser", record.Role())
	}
	if record.Tag() != "Foo-Tag" {
		t.Errorf("Tag = %q, want Foo-Tag", record.Tag())
	}
	if got := record.ACL(); !slices.Equal(got, []string{"Network-TCP", "Network-UDP"}) {
		t.Errorf("ACL = %v, want [Network-TCP Network-UDP]", got)
	}
}

func TestMint_WireShape(t *testing.T) {
	token := testToken(t)
	wire, err := token.Mint(testServerKey(0))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	fields := strings.Split(wire, fieldSeparator)
	if len(fields) != fieldCount {
		t.Fatalf("wire has %d fields, want %d", len(fields), fieldCount)
	}
	if fields[0] != testIdentifier {
		t.Errorf("identifier field = %q, want %q", fields[0], testIdentifier)
	}
	if len(fields[1]) != 24 {
		t.Errorf("issued field is %d chars, want 24", len(fields[1]))
	}
	if len(fields[2]) != 24 {
		t.Errorf("expiry field is %d chars, want 24", len(fields[2]))
	}
	if fields[4] != testNonce {
		t.Errorf("nonce field = %q, want %q", fields[4], testNonce)
	}
	if fields[5] != "ConfidentialityMode::High" {
		t.Errorf("confidentiality field = %q", fields[5])
	}
	if len(fields[6]) != 64 {
		t.Errorf("tag field is %d chars, want 64", len(fields[6]))
	}

	// Mint leaves the computed tag on the token.
	tag := token.Tag()
	if fields[6] != hex.EncodeToString(tag[:]) {
		t.Error("tag field does not match the token's tag")
	}
}

func TestMint_Deterministic(t *testing.T) {
	// Identical inputs and entropy produce an identical wire string.
	first := testWire(t)
	second := testWire(t)
	if first != second {
		t.Error("two mints with the same entropy differ")
	}
}

func TestMintVerify_LowConfidentiality(t *testing.T) {
	token := testToken(t).SetConfidential(false)
	wire, err := token.Mint(testServerKey(0))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	fields := strings.Split(wire, fieldSeparator)
	if fields[5] != "ConfidentialityMode::Low" {
		t.Errorf("confidentiality field = %q, want the low literal", fields[5])
	}

	var presented Token
	outcome, err := presented.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil {
		t.Fatalf("VerifyAt: %v", err)
	}
	if outcome != TokenAuthentic {
		t.Fatalf("outcome = %v, want TokenAuthentic", outcome)
	}
	if presented.Confidentiality() != ConfidentialityLow {
		t.Errorf("Confidentiality = %v, want Low", presented.Confidentiality())
	}
}

func TestMint_WrongKeySize(t *testing.T) {
	_, err := testToken(t).Mint(bytes.Repeat([]byte{0}, 16))
	if !errors.Is(err, ErrServerKeyLength) {
		t.Errorf("Mint with 16-byte key: got %v, want ErrServerKeyLength", err)
	}
}

func TestMint_EmptyACL(t *testing.T) {
	token, err := NewAt(testIssue, entropy.Fake(testIdentifier, testNonce))
	if err != nil {
		t.Fatalf("NewAt: %v", err)
	}
	_, err = token.Mint(testServerKey(0))
	if !errors.Is(err, ErrEmptyACL) {
		t.Errorf("Mint with empty ACL: got %v, want ErrEmptyACL", err)
	}
}

func TestNew(t *testing.T) {
	token, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(token.Identifier()) != IdentifierSize {
		t.Errorf("identifier is %d chars, want %d", len(token.Identifier()), IdentifierSize)
	}
	for _, r := range token.Identifier() {
		if !strings.ContainsRune(entropy.Alphabet, r) {
			t.Errorf("identifier contains %q, outside the alphabet", r)
		}
	}
	if !token.Expiry().After(token.Issued()) {
		t.Error("expiry is not after issue")
	}
}

func TestNewAt_EntropyExhausted(t *testing.T) {
	_, err := NewAt(testIssue, entropy.Fake())
	if err == nil {
		t.Error("NewAt with exhausted entropy succeeded")
	}
}

func TestVerifyAt_ExpiryBoundary(t *testing.T) {
	wire := testWire(t)
	expiry := testIssue.Add(DefaultLifetime)

	// Before expiry: authentic.
	var before Token
	outcome, err := before.VerifyAt(testServerKey(0), wire, expiry.Add(-time.Second))
	if err != nil || outcome != TokenAuthentic {
		t.Errorf("before expiry: (%v, %v), want (TokenAuthentic, nil)", outcome, err)
	}

	// At expiry: expired (the expiry instant is not in the future).
	var at Token
	outcome, err = at.VerifyAt(testServerKey(0), wire, expiry)
	if err != nil || outcome != SessionExpired {
		t.Errorf("at expiry: (%v, %v), want (SessionExpired, nil)", outcome, err)
	}

	// After expiry: expired.
	var after Token
	outcome, err = after.VerifyAt(testServerKey(0), wire, expiry.Add(time.Second))
	if err != nil || outcome != SessionExpired {
		t.Errorf("after expiry: (%v, %v), want (SessionExpired, nil)", outcome, err)
	}
}

func TestVerify_ExpiryDecidedFirst(t *testing.T) {
	// Expiry is read from the wire before the key is touched: an
	// expired token reports SessionExpired even when the presented
	// key could never verify it.
	wire := testWire(t)

	var presented Token
	outcome, err := presented.VerifyAt(bytes.Repeat([]byte{0}, 16), wire, testIssue.Add(48*time.Hour))
	if err != nil || outcome != SessionExpired {
		t.Errorf("expired with bad key: (%v, %v), want (SessionExpired, nil)", outcome, err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	wire := testWire(t)

	var presented Token
	outcome, _ := presented.VerifyAt(testServerKey(1), wire, testIssue.Add(time.Minute))
	if outcome != TokenRejected {
		t.Errorf("outcome = %v, want TokenRejected", outcome)
	}
	if presented.Payload() != nil {
		t.Error("payload set after rejection")
	}
}

func TestVerify_TamperedFields(t *testing.T) {
	wire := testWire(t)

	tests := []struct {
		name   string
		field  int
		mutate func(string) string
	}{
		{"identifier", 0, func(string) string { return strings.Repeat("a", IdentifierSize) }},
		{"issued timestamp", 1, func(string) string {
			return timestampHex(tai64.FromTime(testIssue.Add(-time.Hour)))
		}},
		{"extended expiry", 2, func(string) string {
			return timestampHex(tai64.FromTime(testIssue.Add(48 * time.Hour)))
		}},
		{"ciphertext", 3, flipHexDigit},
		{"nonce", 4, func(s string) string { return s[:len(s)-1] + "z" }},
		{"nonce rewritten", 4, func(string) string { return "zzzzzzzzzzzz" }},
		{"confidentiality downgrade", 5, func(string) string { return "ConfidentialityMode::Low" }},
		{"confidentiality flip", 5, func(s string) string { return s[:len(s)-1] + "x" }},
		{"tag", 6, flipHexDigit},
	}

	for _, tt := range tests {
		fields := strings.Split(wire, fieldSeparator)
		tampered := replaceField(t, wire, tt.field, tt.mutate(fields[tt.field]))

		var presented Token
		outcome, _ := presented.VerifyAt(testServerKey(0), tampered, testIssue.Add(time.Minute))
		if outcome != TokenRejected {
			t.Errorf("%s: outcome = %v, want TokenRejected", tt.name, outcome)
		}
		if presented.Payload() != nil {
			t.Errorf("%s: payload set after rejection", tt.name)
		}
	}
}

func TestVerify_UnknownConfidentialityText(t *testing.T) {
	// Unknown mode text parses as high, but key and tag derivation
	// use the field exactly as carried, so a rewritten mode field
	// never verifies even though it parses to the minted mode.
	wire := testWire(t)
	tampered := replaceField(t, wire, 5, "garbage")

	var presented Token
	outcome, _ := presented.VerifyAt(testServerKey(0), tampered, testIssue.Add(time.Minute))
	if outcome != TokenRejected {
		t.Fatalf("outcome = %v, want TokenRejected", outcome)
	}
	if presented.Payload() != nil {
		t.Error("payload set after rejection")
	}
}

func TestVerify_Structural(t *testing.T) {
	wire := testWire(t)

	tests := []struct {
		name string
		wire string
		want error
	}{
		{"too few fields", "a⊕b⊕c", ErrTokenFieldCount},
		{"too many fields", wire + "⊕extra", ErrTokenFieldCount},
		{"issued not hex", replaceField(t, wire, 1, "zz"), ErrInvalidHex},
		{"issued wrong length", replaceField(t, wire, 1, "abcd"), ErrInvalidTimestamp},
		{"expiry not hex", replaceField(t, wire, 2, "zz"), ErrInvalidHex},
		{"ciphertext not hex", replaceField(t, wire, 3, "zz"), ErrInvalidHex},
		{"nonce wrong length", replaceField(t, wire, 4, "abc"), ErrNonceLength},
		{"tag not hex", replaceField(t, wire, 6, "zz"), ErrInvalidHex},
		{"tag wrong length", replaceField(t, wire, 6, "abcd"), ErrInvalidDigestSize},
	}

	for _, tt := range tests {
		var presented Token
		outcome, err := presented.VerifyAt(testServerKey(0), tt.wire, testIssue.Add(time.Minute))
		if outcome != TokenRejected {
			t.Errorf("%s: outcome = %v, want TokenRejected", tt.name, outcome)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestVerify_SizeLimit(t *testing.T) {
	// One byte over the limit is rejected before parsing.
	var presented Token
	outcome, err := presented.VerifyAt(testServerKey(0), strings.Repeat("a", MaxWireSize+1), testIssue)
	if outcome != TokenRejected {
		t.Errorf("outcome = %v, want TokenRejected", outcome)
	}
	if !errors.Is(err, ErrTokenTooLarge) {
		t.Errorf("got %v, want ErrTokenTooLarge", err)
	}

	// Exactly at the limit the input is read, and fails on shape
	// instead.
	_, err = presented.VerifyAt(testServerKey(0), strings.Repeat("a", MaxWireSize), testIssue)
	if !errors.Is(err, ErrTokenFieldCount) {
		t.Errorf("at-limit wire: got %v, want ErrTokenFieldCount", err)
	}
}

func TestVerify_WrongKeySize(t *testing.T) {
	wire := testWire(t)

	var presented Token
	outcome, err := presented.VerifyAt(bytes.Repeat([]byte{0}, 16), wire, testIssue.Add(time.Minute))
	if outcome != TokenRejected {
		t.Errorf("outcome = %v, want TokenRejected", outcome)
	}
	if !errors.Is(err, ErrServerKeyLength) {
		t.Errorf("got %v, want ErrServerKeyLength", err)
	}
}

func TestVerify_NoMutationOnRejection(t *testing.T) {
	wire := testWire(t)
	tampered := replaceField(t, wire, 6, flipHexDigit(strings.Split(wire, fieldSeparator)[6]))

	presented := &Token{identifier: "untouched"}
	outcome, err := presented.VerifyAt(testServerKey(0), tampered, testIssue.Add(time.Minute))
	if err != nil {
		t.Fatalf("VerifyAt: %v", err)
	}
	if outcome != TokenRejected {
		t.Fatalf("outcome = %v, want TokenRejected", outcome)
	}
	if presented.identifier != "untouched" {
		t.Errorf("identifier = %q, want untouched", presented.identifier)
	}
	if presented.payload != nil {
		t.Error("payload set after rejection")
	}
}

func TestMintVerify_SessionBinding(t *testing.T) {
	token := testToken(t).SetBinding(SessionIDBinding("session-a"))
	wire, err := token.Mint(testServerKey(0))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	// Same binding: authentic, and the binding survives the verify.
	bound := new(Token).SetBinding(SessionIDBinding("session-a"))
	outcome, err := bound.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil || outcome != TokenAuthentic {
		t.Fatalf("same binding: (%v, %v), want (TokenAuthentic, nil)", outcome, err)
	}
	if id, ok := bound.Binding().SessionID(); !ok || id != "session-a" {
		t.Errorf("Binding = (%q, %v), want (session-a, true)", id, ok)
	}

	// Different session: the tag cannot match.
	other := new(Token).SetBinding(SessionIDBinding("session-b"))
	outcome, err = other.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil || outcome != TokenRejected {
		t.Errorf("different session: (%v, %v), want (TokenRejected, nil)", outcome, err)
	}

	// No binding on the receiver: rejected as well.
	var passive Token
	outcome, err = passive.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil || outcome != TokenRejected {
		t.Errorf("passive receiver: (%v, %v), want (TokenRejected, nil)", outcome, err)
	}
}

func TestVerify_PassiveMintBoundReceiver(t *testing.T) {
	wire := testWire(t)

	bound := new(Token).SetBinding(SessionIDBinding("session-a"))
	outcome, err := bound.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil || outcome != TokenRejected {
		t.Errorf("bound receiver, passive token: (%v, %v), want (TokenRejected, nil)", outcome, err)
	}
}

func TestMintVerify_DuplicateACL(t *testing.T) {
	token, err := NewAt(testIssue, entropy.Fake(testIdentifier, testNonce))
	if err != nil {
		t.Fatalf("NewAt: %v", err)
	}
	token.SetPayload(NewIdentityRecord().
		SetUsername("u").
		AddACL("Network-TCP").
		AddACL("Network-TCP"))

	wire, err := token.Mint(testServerKey(0))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	var presented Token
	outcome, err := presented.VerifyAt(testServerKey(0), wire, testIssue.Add(time.Minute))
	if err != nil || outcome != TokenAuthentic {
		t.Fatalf("VerifyAt: (%v, %v), want (TokenAuthentic, nil)", outcome, err)
	}
	if got := presented.Payload().ACL(); !slices.Equal(got, []string{"Network-TCP", "Network-TCP"}) {
		t.Errorf("ACL = %v, want the duplicate preserved", got)
	}
}
