// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/draftline/draftline/internal/auction"
	auctionpg "github.com/draftline/draftline/internal/auction/postgres"
	"github.com/draftline/draftline/internal/auth"
	authpg "github.com/draftline/draftline/internal/auth/postgres"
)

// Connection retry configuration. The database frequently comes up a few
// seconds after the service under docker-compose, so the first pings are
// retried with exponential backoff.
const (
	connectBaseDelay   = 500 * time.Millisecond
	connectMaxAttempts = 6
)

// Connect opens a pgx connection pool and verifies it with a ping,
// retrying with exponential backoff while the database comes up.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_POOL_FAILED").Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectMaxAttempts, retry.NewExponential(connectBaseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Debug("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	return pool, nil
}

// Repositories bundles the PostgreSQL repository set behind the domain
// interfaces, ready to hand to the coordinator and the auth resolver.
type Repositories struct {
	Auctions    auction.AuctionRepository
	Teams       auction.TeamRepository
	Items       auction.ItemRepository
	Picks       auction.PickRepository
	Slots       auction.SlotConfigRepository
	Audit       auction.AuditRepository
	Tx          auction.Transactor
	Credentials auth.CredentialRepository
}

// NewRepositories wires the repository set over one connection pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Auctions:    auctionpg.NewAuctionRepository(pool),
		Teams:       auctionpg.NewTeamRepository(pool),
		Items:       auctionpg.NewItemRepository(pool),
		Picks:       auctionpg.NewPickRepository(pool),
		Slots:       auctionpg.NewSlotConfigRepository(pool),
		Audit:       auctionpg.NewAuditRepository(pool),
		Tx:          auctionpg.NewTransactor(pool),
		Credentials: authpg.NewCredentialRepository(pool),
	}
}
