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

// TeamRepository implements auction.TeamRepository using PostgreSQL.
type TeamRepository struct {
	pool querier
}

// NewTeamRepository creates a new PostgreSQL team repository.
func NewTeamRepository(pool querier) *TeamRepository {
	return &TeamRepository{pool: pool}
}

// Get retrieves a team by ID.
func (r *TeamRepository) Get(ctx context.Context, id ulid.ULID) (*auction.Team, error) {
	row := queryable(ctx, r.pool).QueryRow(ctx, `
		SELECT id, auction_id, name, nomination_order, budget, remaining_budget, active, created_at
		FROM teams WHERE id = $1
	`, id.String())
	team, err := scanTeamRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TEAM_NOT_FOUND").With("id", id.String()).Wrap(auction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TEAM_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return team, nil
}

// ListByAuction retrieves all of an auction's teams ordered by their
// position in the nomination rotation.
func (r *TeamRepository) ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]auction.Team, error) {
	rows, err := queryable(ctx, r.pool).Query(ctx, `
		SELECT id, auction_id, name, nomination_order, budget, remaining_budget, active, created_at
		FROM teams WHERE auction_id = $1
		ORDER BY nomination_order
	`, auctionID.String())
	if err != nil {
		return nil, oops.Code("TEAM_QUERY_FAILED").With("auction_id", auctionID.String()).Wrap(err)
	}
	defer rows.Close()

	teams := make([]auction.Team, 0)
	for rows.Next() {
		team, err := scanTeamRow(rows)
		if err != nil {
			return nil, oops.Code("TEAM_SCAN_FAILED").Wrap(err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TEAM_ITERATE_FAILED").Wrap(err)
	}
	return teams, nil
}

// DebitBudget atomically deducts a winning bid from a team's remaining
// budget. The guard clause keeps the balance from going negative even if
// a caller slips past validation.
func (r *TeamRepository) DebitBudget(ctx context.Context, id ulid.ULID, amount int64) error {
	result, err := queryable(ctx, r.pool).Exec(ctx, `
		UPDATE teams SET remaining_budget = remaining_budget - $2
		WHERE id = $1 AND remaining_budget >= $2
	`, id.String(), amount)
	if err != nil {
		return oops.Code("TEAM_DEBIT_FAILED").With("id", id.String()).With("amount", amount).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TEAM_DEBIT_REJECTED").
			With("id", id.String()).With("amount", amount).
			Errorf("team missing or remaining budget below %d", amount)
	}
	return nil
}

func scanTeamRow(row pgx.Row) (*auction.Team, error) {
	var team auction.Team
	var idStr, auctionIDStr string

	err := row.Scan(
		&idStr, &auctionIDStr, &team.Name, &team.NominationOrder,
		&team.Budget, &team.RemainingBudget, &team.Active, &team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	team.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TEAM_PARSE_FAILED").With("field", "id").With("value", idStr).Wrap(err)
	}
	team.AuctionID, err = ulid.Parse(auctionIDStr)
	if err != nil {
		return nil, oops.Code("TEAM_PARSE_FAILED").With("field", "auction_id").With("value", auctionIDStr).Wrap(err)
	}
	return &team, nil
}

// Compile-time interface check.
var _ auction.TeamRepository = (*TeamRepository)(nil)
