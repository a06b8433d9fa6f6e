// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auth

import (
	"context"
	"sync"
)

// MemoryCredentialRepository is an in-memory CredentialRepository used by
// tests and by the seed command before a database exists.
type MemoryCredentialRepository struct {
	mu     sync.RWMutex
	byHash map[string]Credential
}

// NewMemoryCredentialRepository creates an empty in-memory repository.
func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{byHash: make(map[string]Credential)}
}

// GetByTokenHash returns the credential for a token hash, or ErrNotFound.
func (r *MemoryCredentialRepository) GetByTokenHash(_ context.Context, hash string) (*Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.byHash[hash]
	if !ok {
		return nil, ErrNotFound
	}
	c := cred
	return &c, nil
}

// Create persists a new credential.
func (r *MemoryCredentialRepository) Create(_ context.Context, cred *Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHash[cred.TokenHash] = *cred
	return nil
}

// Compile-time interface check.
var _ CredentialRepository = (*MemoryCredentialRepository)(nil)
