// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package auth resolves bearer tokens to draft participants. Tokens are
// issued out of band (at seed time or by a commissioner) and stored as
// SHA-256 hashes; the plaintext never touches the database.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TokenBytes is the entropy of a generated token: 32 bytes, 64 hex chars.
const TokenBytes = 32

// Credential links a bearer token hash to a draft participant.
type Credential struct {
	ID            ulid.ULID
	ParticipantID ulid.ULID
	// TeamID is nil for observers and commissioners without a team.
	TeamID       *ulid.ULID
	Name         string
	TokenHash    string
	Commissioner bool
	Active       bool
	CreatedAt    time.Time
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ParticipantID ulid.ULID
	TeamID        *ulid.ULID
	Name          string
	Commissioner  bool
}

// CredentialRepository manages credential persistence. Lookup is by token
// hash, so a constant-time comparison is unnecessary: the caller never
// learns which stored hash a miss was compared against.
type CredentialRepository interface {
	// GetByTokenHash returns the credential for a token hash, or
	// ErrNotFound.
	GetByTokenHash(ctx context.Context, hash string) (*Credential, error)

	// Create persists a new credential.
	Create(ctx context.Context, cred *Credential) error
}

// GenerateToken creates a secure random bearer token and its hash.
// The plaintext token is handed to the participant; only the hash is
// stored.
func GenerateToken() (token, hash string, err error) {
	buf := make([]byte, TokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", oops.Code("TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", TokenBytes).
			Wrap(err)
	}
	token = hex.EncodeToString(buf)
	return token, HashToken(token), nil
}

// HashToken computes the SHA-256 hash of a bearer token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
