// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package entropy provides an injectable randomness abstraction for
// testability.
//
// Token code accepts a Source interface parameter instead of calling
// crypto/rand directly. In production, System() draws from the
// operating system's entropy pool. In tests, Fake() replays a fixed
// sequence of values so identifiers and nonces are deterministic.
//
// Every draw produces a fixed-length string over the lowercase
// alphanumeric alphabet (a-z, 0-9). The system source holds no state
// between draws; each call is an independent read from crypto/rand.
//
// # Wiring Pattern
//
// In production:
//
//	token, err := sessiontoken.New()
//
// In tests:
//
//	source := entropy.Fake("aaaabbbbccccddddeeeeffffgggghhhh", "000011112222")
//	token, err := sessiontoken.NewAt(now, source)
//
// The fake source fails loudly on exhaustion or when a queued value's
// length does not match the caller's request, so a test never silently
// draws the wrong material.
package entropy
