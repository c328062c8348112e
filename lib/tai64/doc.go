// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package tai64 implements TAI64N timestamp labels, the time format
// carried inside session tokens.
//
// A label is 12 bytes on the wire: an 8-byte big-endian second count
// on the TAI scale followed by a 4-byte big-endian nanosecond count.
// The second count of the Unix epoch is 2^62 + 10 (TAI was ten
// seconds ahead of UTC on 1970-01-01), so labels sort correctly as
// unsigned byte strings and as [Time] values.
//
// [Time] values are plain comparable structs. Convert with [FromTime]
// and [Time.AsTime], shift with [Time.Add], and order with
// [Time.Before], [Time.After], or [Time.Compare]. [FromBytes] rejects
// labels of the wrong size and labels whose nanosecond count is not a
// valid remainder.
package tai64
