// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auction"
)

// SlotConfigRepository implements auction.SlotConfigRepository using
// PostgreSQL.
type SlotConfigRepository struct {
	pool querier
}

// NewSlotConfigRepository creates a new PostgreSQL slot config repository.
func NewSlotConfigRepository(pool querier) *SlotConfigRepository {
	return &SlotConfigRepository{pool: pool}
}

// TotalCapacity returns the per-team roster capacity for an auction: the
// sum of slots_per_team across its slot configs.
func (r *SlotConfigRepository) TotalCapacity(ctx context.Context, auctionID ulid.ULID) (int, error) {
	var total int
	err := queryable(ctx, r.pool).QueryRow(ctx, `
		SELECT COALESCE(SUM(slots_per_team), 0) FROM roster_slot_configs WHERE auction_id = $1
	`, auctionID.String()).Scan(&total)
	if err != nil {
		return 0, oops.Code("SLOT_CAPACITY_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	return total, nil
}

// ListByAuction retrieves an auction's slot configs.
func (r *SlotConfigRepository) ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]auction.RosterSlotConfig, error) {
	rows, err := queryable(ctx, r.pool).Query(ctx, `
		SELECT id, auction_id, position, slots_per_team
		FROM roster_slot_configs WHERE auction_id = $1
		ORDER BY position
	`, auctionID.String())
	if err != nil {
		return nil, oops.Code("SLOT_QUERY_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	defer rows.Close()

	configs := make([]auction.RosterSlotConfig, 0)
	for rows.Next() {
		var cfg auction.RosterSlotConfig
		var idStr, auctionIDStr string
		if err := rows.Scan(&idStr, &auctionIDStr, &cfg.Position, &cfg.SlotsPerTeam); err != nil {
			return nil, oops.Code("SLOT_SCAN_FAILED").Wrap(err)
		}
		cfg.ID, err = ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("SLOT_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
		}
		cfg.AuctionID, err = ulid.Parse(auctionIDStr)
		if err != nil {
			return nil, oops.Code("SLOT_PARSE_FAILED").With("field", "auction_id").With("value", auctionIDStr).Wrap(err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SLOT_ITERATE_FAILED").Wrap(err)
	}
	return configs, nil
}

// Compile-time interface check.
var _ auction.SlotConfigRepository = (*SlotConfigRepository)(nil)
