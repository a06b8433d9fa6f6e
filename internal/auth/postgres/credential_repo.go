// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package postgres provides the PostgreSQL-backed credential repository.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auth"
)

// pool is the subset of *pgxpool.Pool this repository needs; pgxmock
// satisfies it in tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialRepository implements auth.CredentialRepository using
// PostgreSQL.
type CredentialRepository struct {
	pool pool
}

// NewCredentialRepository creates a new PostgreSQL credential repository.
func NewCredentialRepository(p pool) *CredentialRepository {
	return &CredentialRepository{pool: p}
}

// GetByTokenHash retrieves a credential by its token hash.
func (r *CredentialRepository) GetByTokenHash(ctx context.Context, hash string) (*auth.Credential, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, participant_id, team_id, name, token_hash, commissioner, active, created_at
		FROM draft_credentials WHERE token_hash = $1
	`, hash)

	var cred auth.Credential
	var idStr, participantIDStr string
	var teamIDStr *string
	err := row.Scan(
		&idStr, &participantIDStr, &teamIDStr, &cred.Name,
		&cred.TokenHash, &cred.Commissioner, &cred.Active, &cred.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_FAILED").Wrap(err)
	}

	cred.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
	}
	cred.ParticipantID, err = ulid.Parse(participantIDStr)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_PARSE_FAILED").With("field", "participant_id").With("value", participantIDStr).Wrap(err)
	}
	if teamIDStr != nil {
		teamID, err := ulid.Parse(*teamIDStr)
		if err != nil {
			return nil, oops.Code("CREDENTIAL_PARSE_FAILED").With("field", "team_id").With("value", *teamIDStr).Wrap(err)
		}
		cred.TeamID = &teamID
	}
	return &cred, nil
}

// Create persists a new credential.
func (r *CredentialRepository) Create(ctx context.Context, cred *auth.Credential) error {
	var teamID *string
	if cred.TeamID != nil {
		s := cred.TeamID.String()
		teamID = &s
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO draft_credentials (id, participant_id, team_id, name, token_hash, commissioner, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, cred.ID.String(), cred.ParticipantID.String(), teamID, cred.Name,
		cred.TokenHash, cred.Commissioner, cred.Active, cred.CreatedAt)
	if err != nil {
		return oops.Code("CREDENTIAL_CREATE_FAILED").With("id", cred.ID.String()).Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.CredentialRepository = (*CredentialRepository)(nil)
