// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package tai64

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// RawSize is the byte width of an encoded label.
const RawSize = 12

// unixOffset is the TAI64 second count of the Unix epoch. 2^62 marks
// the start of the TAI64 range; the +10 is the TAI-UTC offset on
// 1970-01-01. Later leap seconds are deliberately ignored: tokens
// compare issue and expiry labels produced by the same rule, so only
// monotonicity of the mapping matters, not absolute TAI accuracy.
const unixOffset = 1<<62 + 10

// maxNanos is the largest valid nanosecond remainder.
const maxNanos = 999_999_999

// Errors returned by FromBytes.
var (
	ErrSize  = errors.New("tai64: label must be 12 bytes")
	ErrNanos = errors.New("tai64: nanosecond count out of range")
)

// Time is a decoded TAI64N label. The zero value is the start of the
// TAI64 range, billions of years before any session token, so an
// unset Time always compares as expired.
type Time struct {
	seconds uint64
	nanos   uint32
}

// Now returns the label for the current instant.
func Now() Time {
	return FromTime(time.Now())
}

// FromTime converts a time.Time to its label. Sub-nanosecond detail
// and the location are discarded.
func FromTime(t time.Time) Time {
	return Time{
		seconds: uint64(unixOffset + t.Unix()),
		nanos:   uint32(t.Nanosecond()),
	}
}

// AsTime converts the label back to a time.Time in UTC.
func (t Time) AsTime() time.Time {
	return time.Unix(int64(t.seconds)-unixOffset, int64(t.nanos)).UTC()
}

// FromBytes decodes a 12-byte label. Returns ErrSize for any other
// length and ErrNanos when the nanosecond count is not a valid
// remainder.
func FromBytes(raw []byte) (Time, error) {
	if len(raw) != RawSize {
		return Time{}, fmt.Errorf("%w: got %d", ErrSize, len(raw))
	}
	nanos := binary.BigEndian.Uint32(raw[8:])
	if nanos > maxNanos {
		return Time{}, fmt.Errorf("%w: %d", ErrNanos, nanos)
	}
	return Time{
		seconds: binary.BigEndian.Uint64(raw[:8]),
		nanos:   nanos,
	}, nil
}

// Bytes encodes the label to its 12-byte wire form.
func (t Time) Bytes() [RawSize]byte {
	var raw [RawSize]byte
	binary.BigEndian.PutUint64(raw[:8], t.seconds)
	binary.BigEndian.PutUint32(raw[8:], t.nanos)
	return raw
}

// Add returns the label shifted by d. Negative durations shift
// backward.
func (t Time) Add(d time.Duration) Time {
	seconds := int64(t.seconds) + int64(d/time.Second)
	nanos := int64(t.nanos) + int64(d%time.Second)
	if nanos > maxNanos {
		seconds++
		nanos -= 1_000_000_000
	} else if nanos < 0 {
		seconds--
		nanos += 1_000_000_000
	}
	return Time{seconds: uint64(seconds), nanos: uint32(nanos)}
}

// Compare returns -1 if t is before u, +1 if t is after u, and 0 if
// they are the same instant.
func (t Time) Compare(u Time) int {
	switch {
	case t.seconds < u.seconds:
		return -1
	case t.seconds > u.seconds:
		return 1
	case t.nanos < u.nanos:
		return -1
	case t.nanos > u.nanos:
		return 1
	}
	return 0
}

// Before reports whether t is strictly before u.
func (t Time) Before(u Time) bool { return t.Compare(u) < 0 }

// After reports whether t is strictly after u.
func (t Time) After(u Time) bool { return t.Compare(u) > 0 }

// String returns the external text form: '@' followed by the
// hex-encoded label.
func (t Time) String() string {
	raw := t.Bytes()
	return "@" + hex.EncodeToString(raw[:])
}
