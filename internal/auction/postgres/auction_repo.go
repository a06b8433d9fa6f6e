// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auction"
)

// AuctionRepository implements auction.AuctionRepository using PostgreSQL.
type AuctionRepository struct {
	pool querier
}

// NewAuctionRepository creates a new PostgreSQL auction repository.
func NewAuctionRepository(pool querier) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// Get retrieves an auction by ID.
func (r *AuctionRepository) Get(ctx context.Context, id ulid.ULID) (*auction.Auction, error) {
	row := queryable(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, status, min_opening_bid, current_nominator_id,
		       active_item_id, current_high_bid, current_high_bidder_id,
		       version, created_at, updated_at
		FROM auctions WHERE id = $1
	`, id.String())
	a, err := scanAuctionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("AUCTION_NOT_FOUND").With("id", id.String()).Wrap(auction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("AUCTION_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return a, nil
}

// UpdateState writes the mutable bidding fields guarded by the auction's
// version. A version mismatch means another writer committed first; the
// caller receives *auction.Conflict and must re-read before retrying. On
// success the in-memory Version is advanced to match the stored row.
func (r *AuctionRepository) UpdateState(ctx context.Context, a *auction.Auction) error {
	result, err := queryable(ctx, r.pool).Exec(ctx, `
		UPDATE auctions
		SET status = $2,
		    current_nominator_id = $3,
		    active_item_id = $4,
		    current_high_bid = $5,
		    current_high_bidder_id = $6,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1 AND version = $7
	`, a.ID.String(), string(a.Status),
		ulidToStringPtr(a.CurrentNominatorID),
		ulidToStringPtr(a.ActiveItemID),
		a.CurrentHighBid,
		ulidToStringPtr(a.CurrentHighBidderID),
		a.Version)
	if err != nil {
		return oops.Code("AUCTION_UPDATE_FAILED").With("id", a.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return &auction.Conflict{Reason: "auction state changed concurrently"}
	}
	a.Version++
	return nil
}

// auctionScanFields holds intermediate scan values for auction parsing.
type auctionScanFields struct {
	idStr           string
	statusStr       string
	nominatorIDStr  *string
	activeItemIDStr *string
	highBidderIDStr *string
}

func scanAuctionRow(row pgx.Row) (*auction.Auction, error) {
	var a auction.Auction
	var f auctionScanFields

	err := row.Scan(
		&f.idStr, &a.Name, &f.statusStr, &a.MinOpeningBid,
		&f.nominatorIDStr, &f.activeItemIDStr, &a.CurrentHighBid,
		&f.highBidderIDStr, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = auction.Status(f.statusStr)
	a.ID, err = ulid.Parse(f.idStr)
	if err != nil {
		return nil, oops.Code("AUCTION_PARSE_FAILED").With("field", "id").With("value", f.idStr).Wrap(err)
	}
	a.CurrentNominatorID, err = parseOptionalULID(f.nominatorIDStr, "current_nominator_id")
	if err != nil {
		return nil, err
	}
	a.ActiveItemID, err = parseOptionalULID(f.activeItemIDStr, "active_item_id")
	if err != nil {
		return nil, err
	}
	a.CurrentHighBidderID, err = parseOptionalULID(f.highBidderIDStr, "current_high_bidder_id")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Compile-time interface check.
var _ auction.AuctionRepository = (*AuctionRepository)(nil)
