// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auction"
)

const defaultAuditLimit = 100

// AuditRepository implements auction.AuditRepository using PostgreSQL.
// The audit_entries table is append-only.
type AuditRepository struct {
	pool querier
}

// NewAuditRepository creates a new PostgreSQL audit repository.
func NewAuditRepository(pool querier) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Append persists an audit entry.
func (r *AuditRepository) Append(ctx context.Context, entry *auction.AuditEntry) error {
	_, err := queryable(ctx, r.pool).Exec(ctx, `
		INSERT INTO audit_entries (id, auction_id, item_id, team_id, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID.String(), entry.AuctionID.String(), entry.ItemID.String(),
		ulidToStringPtr(entry.TeamID), string(entry.Kind), entry.Amount, entry.CreatedAt)
	if err != nil {
		return oops.Code("AUDIT_APPEND_FAILED").With("id", entry.ID.String()).Wrap(err)
	}
	return nil
}

// ListByAuction retrieves an auction's most recent audit entries in
// chronological order. A non-positive limit applies the default.
func (r *AuditRepository) ListByAuction(ctx context.Context, auctionID ulid.ULID, limit int) ([]auction.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	rows, err := queryable(ctx, r.pool).Query(ctx, `
		SELECT id, auction_id, item_id, team_id, kind, amount, created_at
		FROM (
			SELECT id, auction_id, item_id, team_id, kind, amount, created_at
			FROM audit_entries WHERE auction_id = $1
			ORDER BY id DESC LIMIT $2
		) latest
		ORDER BY id
	`, auctionID.String(), limit)
	if err != nil {
		return nil, oops.Code("AUDIT_QUERY_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	defer rows.Close()

	entries := make([]auction.AuditEntry, 0)
	for rows.Next() {
		var entry auction.AuditEntry
		var idStr, auctionIDStr, itemIDStr string
		var teamIDStr *string
		var kindStr string
		if err := rows.Scan(&idStr, &auctionIDStr, &itemIDStr, &teamIDStr, &kindStr, &entry.Amount, &entry.CreatedAt); err != nil {
			return nil, oops.Code("AUDIT_SCAN_FAILED").Wrap(err)
		}
		entry.Kind = auction.AuditKind(kindStr)
		entry.ID, err = ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("AUDIT_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
		}
		entry.AuctionID, err = ulid.Parse(auctionIDStr)
		if err != nil {
			return nil, oops.Code("AUDIT_PARSE_FAILED").With("field", "auction_id").With("value", auctionIDStr).Wrap(err)
		}
		entry.ItemID, err = ulid.Parse(itemIDStr)
		if err != nil {
			return nil, oops.Code("AUDIT_PARSE_FAILED").With("field", "item_id").With("value", itemIDStr).Wrap(err)
		}
		entry.TeamID, err = parseOptionalULID(teamIDStr, "team_id")
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("AUDIT_ITERATE_FAILED").Wrap(err)
	}
	return entries, nil
}

// Compile-time interface check.
var _ auction.AuditRepository = (*AuditRepository)(nil)
