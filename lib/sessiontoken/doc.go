// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessiontoken implements stateless, self-contained session
// tokens: an identity and capability record encrypted, time-bounded,
// and authenticated under a single server-held 32-byte key.
//
// A server mints a token for a client once, hands over the wire
// string, and keeps nothing. Every later request carries the token
// back, and the server verifies it with the key alone: there is no
// session store, and hosts that share the key verify independently.
//
// # Wire format
//
// A token is a single UTF-8 string of seven fields joined by the ⊕
// separator:
//
//	identifier ⊕ issued ⊕ expiry ⊕ ciphertext ⊕ nonce ⊕ confidentiality ⊕ tag
//
// The identifier is 32 random alphanumeric characters. The two
// timestamps are hex TAI64N labels (lib/tai64). The ciphertext is the
// hex ChaCha20 encryption of the serialized identity record under a
// key derived from the server key and the token's naming fields. The
// nonce is the 12-character keystream nonce. The confidentiality
// field carries the mode's literal text. The tag is a keyed BLAKE3
// digest over the six preceding fields; any edit to them changes it.
//
// # Minting and verifying
//
//	token, err := sessiontoken.New()
//	// ...SetPayload, SetLifetime, SetConfidential as needed...
//	wire, err := token.Mint(serverKey)
//
//	var presented sessiontoken.Token
//	outcome, err := presented.Verify(serverKey, wire)
//
// Verify distinguishes structural errors (malformed fields, wrong key
// size) from semantic outcomes: TokenAuthentic, TokenRejected, and
// SessionExpired. The expiry check runs before any key-dependent
// work, and the destination token is written only after the tag
// comparison succeeds, so a rejected or expired wire string never
// leaves partial state behind.
//
// # Session binding
//
// A token can optionally be bound to a session ID. The ID never
// travels on the wire; it is mixed into the tag at mint time, and the
// verifier sets the same binding on the destination token before
// calling Verify. A bound token presented outside its session is
// rejected like any other forgery.
//
// # Dependencies
//
// github.com/zeebo/blake3 for the keyed key-derivation and tag
// digests, golang.org/x/crypto/chacha20 for the record envelope,
// lib/tai64 for timestamps, lib/entropy for identifier and nonce
// draws. Key storage and escrow live in lib/serverkey.
package sessiontoken
