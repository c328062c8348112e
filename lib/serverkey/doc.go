// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package serverkey manages the 32-byte key that session tokens are
// minted and verified under. The key is the only secret in the token
// scheme: every host that holds it can mint and verify, and nothing
// else can.
//
// The key lives in a single fixed-name file in a state directory,
// created with 0600 permissions, and is handled in memory only
// through [secret.Buffer] values: the backing memory is locked
// against swap and excluded from core dumps, and Close zeros it. For
// disaster recovery the key can be escrowed: encrypted with
// filippo.io/age to one or more recipient public keys and stored as
// base64 text wherever the operator keeps cold secrets.
//
// Key exports:
//
//   - [Generate] / [Save] / [Load] / [LoadOrGenerate] -- key file lifecycle
//   - [GenerateEscrowIdentity] / [LoadIdentity] -- age escrow identities
//   - [Seal] / [Unseal] -- escrow a key to recipients, recover it back
//
// Depends on lib/secret for secure memory allocation.
package serverkey
