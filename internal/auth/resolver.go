// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Resolver authenticates bearer tokens against stored credentials.
type Resolver struct {
	credentials CredentialRepository
}

// NewResolver creates a Resolver.
func NewResolver(credentials CredentialRepository) (*Resolver, error) {
	if credentials == nil {
		return nil, oops.Code("RESOLVER_CONFIG_INVALID").Errorf("credential repository is required")
	}
	return &Resolver{credentials: credentials}, nil
}

// Resolve maps a plaintext bearer token to its Principal. Unknown and
// deactivated tokens both return ErrInvalidToken so callers cannot tell
// them apart.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	cred, err := r.credentials.GetByTokenHash(ctx, HashToken(token))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, oops.Code("TOKEN_RESOLVE_FAILED").Wrap(err)
	}
	if !cred.Active {
		return nil, ErrInvalidToken
	}

	return &Principal{
		ParticipantID: cred.ParticipantID,
		TeamID:        cred.TeamID,
		Name:          cred.Name,
		Commissioner:  cred.Commissioner,
	}, nil
}
