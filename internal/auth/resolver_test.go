// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, hash, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token, TokenBytes*2, "token is hex-encoded")
	assert.Equal(t, HashToken(token), hash)
	assert.NotEqual(t, token, hash)

	// Tokens are unique per call.
	token2, _, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}

func TestResolver_Resolve(t *testing.T) {
	teamID := ulid.Make()
	token, hash, err := GenerateToken()
	require.NoError(t, err)
	inactiveToken, inactiveHash, err := GenerateToken()
	require.NoError(t, err)

	repo := NewMemoryCredentialRepository()
	require.NoError(t, repo.Create(context.Background(), &Credential{
		ID:            ulid.Make(),
		ParticipantID: ulid.Make(),
		TeamID:        &teamID,
		Name:          "manager-a",
		TokenHash:     hash,
		Active:        true,
		CreatedAt:     time.Now(),
	}))
	require.NoError(t, repo.Create(context.Background(), &Credential{
		ID:            ulid.Make(),
		ParticipantID: ulid.Make(),
		Name:          "revoked",
		TokenHash:     inactiveHash,
		Active:        false,
		CreatedAt:     time.Now(),
	}))

	resolver, err := NewResolver(repo)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		principal, err := resolver.Resolve(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "manager-a", principal.Name)
		require.NotNil(t, principal.TeamID)
		assert.Equal(t, teamID, *principal.TeamID)
		assert.False(t, principal.Commissioner)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "deadbeef")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("deactivated token", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), inactiveToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewResolver_RequiresRepository(t *testing.T) {
	resolver, err := NewResolver(nil)
	require.Error(t, err)
	assert.Nil(t, resolver)
}
