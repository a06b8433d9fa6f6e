// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auction"
)

// PickRepository implements auction.PickRepository using PostgreSQL.
//
// The draft_picks table carries two unique constraints that back the
// won-once guarantee independently of the coordinator's locking: one on
// item_id and one on (auction_id, pick_order). Violations surface as
// *auction.Conflict.
type PickRepository struct {
	pool querier
}

// NewPickRepository creates a new PostgreSQL pick repository.
func NewPickRepository(pool querier) *PickRepository {
	return &PickRepository{pool: pool}
}

// Create persists a draft pick.
func (r *PickRepository) Create(ctx context.Context, pick *auction.DraftPick) error {
	_, err := queryable(ctx, r.pool).Exec(ctx, `
		INSERT INTO draft_picks (id, auction_id, team_id, item_id, winning_bid, pick_order, slot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, pick.ID.String(), pick.AuctionID.String(), pick.TeamID.String(), pick.ItemID.String(),
		pick.WinningBid, pick.PickOrder, pick.Slot, pick.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return &auction.Conflict{Reason: "item already drafted or pick order taken"}
		}
		return oops.Code("PICK_CREATE_FAILED").With("id", pick.ID.String()).Wrap(err)
	}
	return nil
}

// ExistsByItem reports whether the item has already been won.
func (r *PickRepository) ExistsByItem(ctx context.Context, itemID ulid.ULID) (bool, error) {
	var exists bool
	err := queryable(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM draft_picks WHERE item_id = $1)
	`, itemID.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("PICK_EXISTS_FAILED").With("item_id", itemID.String()).Wrap(err)
	}
	return exists, nil
}

// CountsByAuction returns the number of picks each team has made.
func (r *PickRepository) CountsByAuction(ctx context.Context, auctionID ulid.ULID) (map[ulid.ULID]int, error) {
	rows, err := queryable(ctx, r.pool).Query(ctx, `
		SELECT team_id, COUNT(*) FROM draft_picks
		WHERE auction_id = $1
		GROUP BY team_id
	`, auctionID.String())
	if err != nil {
		return nil, oops.Code("PICK_COUNT_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	defer rows.Close()

	counts := make(map[ulid.ULID]int)
	for rows.Next() {
		var teamIDStr string
		var n int
		if err := rows.Scan(&teamIDStr, &n); err != nil {
			return nil, oops.Code("PICK_SCAN_FAILED").Wrap(err)
		}
		teamID, err := ulid.Parse(teamIDStr)
		if err != nil {
			return nil, oops.Code("PICK_PARSE_FAILED").With("field", "team_id").With("value", teamIDStr).Wrap(err)
		}
		counts[teamID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PICK_ITERATE_FAILED").Wrap(err)
	}
	return counts, nil
}

// NextPickOrder returns the next sequential pick number for the auction.
func (r *PickRepository) NextPickOrder(ctx context.Context, auctionID ulid.ULID) (int, error) {
	var next int
	err := queryable(ctx, r.pool).QueryRow(ctx, `
		SELECT COALESCE(MAX(pick_order), 0) + 1 FROM draft_picks WHERE auction_id = $1
	`, auctionID.String()).Scan(&next)
	if err != nil {
		return 0, oops.Code("PICK_ORDER_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	return next, nil
}

// ListByAuction retrieves an auction's picks in pick order.
func (r *PickRepository) ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]auction.DraftPick, error) {
	rows, err := queryable(ctx, r.pool).Query(ctx, `
		SELECT id, auction_id, team_id, item_id, winning_bid, pick_order, slot, created_at
		FROM draft_picks WHERE auction_id = $1
		ORDER BY pick_order
	`, auctionID.String())
	if err != nil {
		return nil, oops.Code("PICK_QUERY_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	defer rows.Close()

	picks := make([]auction.DraftPick, 0)
	for rows.Next() {
		pick, err := scanPickRow(rows)
		if err != nil {
			return nil, err
		}
		picks = append(picks, *pick)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PICK_ITERATE_FAILED").Wrap(err)
	}
	return picks, nil
}

func scanPickRow(row pgx.Row) (*auction.DraftPick, error) {
	var pick auction.DraftPick
	var idStr, auctionIDStr, teamIDStr, itemIDStr string

	err := row.Scan(
		&idStr, &auctionIDStr, &teamIDStr, &itemIDStr,
		&pick.WinningBid, &pick.PickOrder, &pick.Slot, &pick.CreatedAt,
	)
	if err != nil {
		return nil, oops.Code("PICK_SCAN_FAILED").Wrap(err)
	}

	for _, f := range []struct {
		name string
		str  string
		dst  *ulid.ULID
	}{
		{"id", idStr, &pick.ID},
		{"auction_id", auctionIDStr, &pick.AuctionID},
		{"team_id", teamIDStr, &pick.TeamID},
		{"item_id", itemIDStr, &pick.ItemID},
	} {
		id, err := ulid.Parse(f.str)
		if err != nil {
			return nil, oops.Code("PICK_PARSE_FAILED").With("field", f.name).With("value", f.str).Wrap(err)
		}
		*f.dst = id
	}
	return &pick, nil
}

// Compile-time interface check.
var _ auction.PickRepository = (*PickRepository)(nil)
