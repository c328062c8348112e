// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import "errors"

// Structural errors returned by Mint, Verify, and the record and
// envelope codecs. Callers match them with errors.Is; the wrapped
// form carries the offending detail.
var (
	// ErrServerKeyLength reports a server key that is not exactly
	// 32 bytes. Both minting and verification refuse to run with a
	// wrong-sized key.
	ErrServerKeyLength = errors.New("sessiontoken: server key must be 32 bytes")

	// ErrNonceLength reports an envelope nonce that is not exactly
	// 12 bytes.
	ErrNonceLength = errors.New("sessiontoken: nonce must be 12 bytes")

	// ErrTokenTooLarge reports a wire string over the 1 MiB limit.
	// Verification rejects oversized input before touching it.
	ErrTokenTooLarge = errors.New("sessiontoken: token exceeds maximum wire size")

	// ErrTokenFieldCount reports a wire string that does not split
	// into exactly seven fields.
	ErrTokenFieldCount = errors.New("sessiontoken: token must have exactly 7 fields")

	// ErrRecordFieldCount reports a decrypted record that does not
	// split into exactly four segments.
	ErrRecordFieldCount = errors.New("sessiontoken: record must have exactly 4 segments")

	// ErrEmptyACL reports an identity record with no access control
	// entries. Such a record grants nothing and cannot be sealed.
	ErrEmptyACL = errors.New("sessiontoken: identity record has an empty ACL")

	// ErrInvalidHex reports a field that failed hex decoding.
	ErrInvalidHex = errors.New("sessiontoken: invalid hex encoding")

	// ErrInvalidTimestamp reports a timestamp field whose bytes do
	// not form a TAI64N label.
	ErrInvalidTimestamp = errors.New("sessiontoken: invalid timestamp")

	// ErrInvalidDigestSize reports a tag field that decoded to
	// something other than 32 bytes.
	ErrInvalidDigestSize = errors.New("sessiontoken: authentication tag must be 32 bytes")

	// ErrInvalidUTF8 reports a decrypted record that is not valid
	// UTF-8, which means the ciphertext was not produced under the
	// presented key material.
	ErrInvalidUTF8 = errors.New("sessiontoken: decrypted record is not valid UTF-8")
)
