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

// ItemRepository implements auction.ItemRepository using PostgreSQL.
type ItemRepository struct {
	pool querier
}

// NewItemRepository creates a new PostgreSQL item repository.
func NewItemRepository(pool querier) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Get retrieves an item by ID.
func (r *ItemRepository) Get(ctx context.Context, id ulid.ULID) (*auction.Item, error) {
	row := queryable(ctx, r.pool).QueryRow(ctx, `
		SELECT id, auction_id, name, category, projected_value, created_at
		FROM items WHERE id = $1
	`, id.String())

	var item auction.Item
	var idStr, auctionIDStr string
	err := row.Scan(&idStr, &auctionIDStr, &item.Name, &item.Category, &item.ProjectedValue, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ITEM_NOT_FOUND").With("id", id.String()).Wrap(auction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_FAILED").With("id", id.String()).Wrap(err)
	}

	item.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ITEM_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
	}
	item.AuctionID, err = ulid.Parse(auctionIDStr)
	if err != nil {
		return nil, oops.Code("ITEM_PARSE_FAILED").With("field", "auction_id").With("value", auctionIDStr).Wrap(err)
	}
	return &item, nil
}

// Compile-time interface check.
var _ auction.ItemRepository = (*ItemRepository)(nil)
