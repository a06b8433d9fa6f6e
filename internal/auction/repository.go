// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// AuctionRepository persists auction state.
type AuctionRepository interface {
	Get(ctx context.Context, id ulid.ULID) (*Auction, error)

	// UpdateState writes the mutable bidding fields guarded by the version
	// recorded on a. Returns a *Conflict when the stored version differs,
	// in which case nothing was written. On success a.Version is advanced.
	UpdateState(ctx context.Context, a *Auction) error
}

// TeamRepository reads and adjusts team roster/budget accounting.
type TeamRepository interface {
	Get(ctx context.Context, id ulid.ULID) (*Team, error)
	ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]Team, error)

	// DebitBudget subtracts amount from the team's remaining budget.
	DebitBudget(ctx context.Context, id ulid.ULID, amount int64) error
}

// ItemRepository is the read-only item catalog.
type ItemRepository interface {
	Get(ctx context.Context, id ulid.ULID) (*Item, error)
}

// PickRepository persists draft picks (append-only).
type PickRepository interface {
	Create(ctx context.Context, pick *DraftPick) error
	ExistsByItem(ctx context.Context, itemID ulid.ULID) (bool, error)
	CountsByAuction(ctx context.Context, auctionID ulid.ULID) (map[ulid.ULID]int, error)
	NextPickOrder(ctx context.Context, auctionID ulid.ULID) (int, error)
	ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]DraftPick, error)
}

// SlotConfigRepository reads roster slot configuration.
type SlotConfigRepository interface {
	TotalCapacity(ctx context.Context, auctionID ulid.ULID) (int, error)
	ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]RosterSlotConfig, error)
}

// AuditRepository is the append-only action ledger. Entries are never
// updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	ListByAuction(ctx context.Context, auctionID ulid.ULID, limit int) ([]AuditEntry, error)
}

// Transactor runs fn inside one transaction. Repository calls made with the
// context passed to fn join that transaction; fn returning an error rolls
// everything back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
