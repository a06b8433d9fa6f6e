// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMigrate implements migrateIface with scripted results.
type fakeMigrate struct {
	upErr      error
	downErr    error
	stepsErr   error
	stepsGot   int
	version    uint
	dirty      bool
	versionErr error
	forceErr   error
	forceGot   int
	srcErr     error
	dbErr      error
}

func (f *fakeMigrate) Up() error   { return f.upErr }
func (f *fakeMigrate) Down() error { return f.downErr }
func (f *fakeMigrate) Steps(n int) error {
	f.stepsGot = n
	return f.stepsErr
}
func (f *fakeMigrate) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }
func (f *fakeMigrate) Force(v int) error {
	f.forceGot = v
	return f.forceErr
}
func (f *fakeMigrate) Close() (error, error) { return f.srcErr, f.dbErr }

func TestMigrator_Up(t *testing.T) {
	tests := []struct {
		name    string
		upErr   error
		wantErr bool
	}{
		{"success", nil, false},
		{"no change is not an error", migrate.ErrNoChange, false},
		{"failure", errors.New("syntax error"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migrator{m: &fakeMigrate{upErr: tt.upErr}}
			err := m.Up()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMigrator_Version(t *testing.T) {
	t.Run("nil version maps to zero", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Zero(t, version)
		assert.False(t, dirty)
	})

	t.Run("reports dirty state", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{version: 2, dirty: true}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.True(t, dirty)
	})

	t.Run("propagates errors", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: errors.New("boom")}}
		_, _, err := m.Version()
		require.Error(t, err)
	})
}

func TestMigrator_Force(t *testing.T) {
	t.Run("rejects negative version", func(t *testing.T) {
		fake := &fakeMigrate{}
		m := &Migrator{m: fake}
		err := m.Force(-1)
		require.Error(t, err)
		assert.Zero(t, fake.forceGot, "Force must not reach the driver")
	})

	t.Run("forwards valid version", func(t *testing.T) {
		fake := &fakeMigrate{}
		m := &Migrator{m: fake}
		require.NoError(t, m.Force(3))
		assert.Equal(t, 3, fake.forceGot)
	})
}

func TestMigrator_Close(t *testing.T) {
	tests := []struct {
		name    string
		srcErr  error
		dbErr   error
		wantErr bool
	}{
		{"clean close", nil, nil, false},
		{"source error", errors.New("src"), nil, true},
		{"database error", nil, errors.New("db"), true},
		{"both errors combined", errors.New("src"), errors.New("db"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migrator{m: &fakeMigrate{srcErr: tt.srcErr, dbErr: tt.dbErr}}
			err := m.Close()
			if tt.wantErr {
				require.Error(t, err)
				if tt.srcErr != nil && tt.dbErr != nil {
					assert.Contains(t, err.Error(), "src")
					assert.Contains(t, err.Error(), "db")
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries, "migrations must be embedded")

	// Every up migration has a matching down migration.
	files := make(map[string]bool)
	for _, e := range entries {
		files[e.Name()] = true
	}
	for name := range files {
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok {
			assert.True(t, files[base+".down.sql"], "missing down migration for %s", name)
		}
	}
}
