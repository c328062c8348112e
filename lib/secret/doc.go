// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for the sensitive
// material this module handles: the 32-byte server key that seals and
// verifies every session token, and the escrow identities that protect
// it at rest.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock (preventing swap), and marks it
// excluded from core dumps via madvise(MADV_DONTDUMP). On Close, the
// memory is zeroed, unlocked, and unmapped. Because the memory lives
// outside the Go heap, the garbage collector cannot copy or relocate
// it, so the key does not persist in stray heap copies after release.
//
// Constructors:
//
//   - [New] -- allocates a zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeros the source
//   - [ReadFromPath] -- reads a text-form secret from a file or stdin
//
// Access via [Buffer.Bytes] (slice into the mmap region) or
// [Buffer.String] (heap copy for API boundaries that demand a string).
// [Buffer.Equal] compares two buffers in constant time. [Zero] wipes a
// byte slice in place for transient copies outside a Buffer. After
// Close, any access panics. Close is idempotent.
//
// Depends on golang.org/x/sys/unix. Imported by lib/serverkey for key
// generation, persistence, and escrow.
package secret
