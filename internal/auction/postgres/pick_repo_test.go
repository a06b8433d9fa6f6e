// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftline/draftline/internal/auction"
)

func TestPickRepository_Create(t *testing.T) {
	pick := &auction.DraftPick{
		ID:         ulid.Make(),
		AuctionID:  ulid.Make(),
		TeamID:     ulid.Make(),
		ItemID:     ulid.Make(),
		WinningBid: 6,
		PickOrder:  1,
		CreatedAt:  time.Now().UTC(),
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		check     func(t *testing.T, err error)
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO draft_picks`).
					WithArgs(pick.ID.String(), pick.AuctionID.String(), pick.TeamID.String(),
						pick.ItemID.String(), int64(6), 1, (*string)(nil), pick.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "item already drafted maps to conflict",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO draft_picks`).
					WillReturnError(&pgconn.PgError{
						Code:           pgerrcode.UniqueViolation,
						ConstraintName: "draft_picks_item_id_key",
					})
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				_, ok := auction.AsConflict(err)
				assert.True(t, ok, "expected *auction.Conflict, got %T", err)
			},
		},
		{
			name: "other database error passes through",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO draft_picks`).
					WillReturnError(errors.New("disk full"))
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				_, ok := auction.AsConflict(err)
				assert.False(t, ok)
				assert.Contains(t, err.Error(), "disk full")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			tt.check(t, NewPickRepository(mock).Create(context.Background(), pick))
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPickRepository_ExistsByItem(t *testing.T) {
	itemID := ulid.Make()

	t.Run("drafted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(itemID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := NewPickRepository(mock).ExistsByItem(context.Background(), itemID)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("not drafted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(itemID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := NewPickRepository(mock).ExistsByItem(context.Background(), itemID)
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestPickRepository_CountsByAuction(t *testing.T) {
	auctionID := ulid.Make()
	teamA := ulid.Make()
	teamB := ulid.Make()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"team_id", "count"}).
		AddRow(teamA.String(), 3).
		AddRow(teamB.String(), 1)
	mock.ExpectQuery(`SELECT team_id, COUNT`).
		WithArgs(auctionID.String()).
		WillReturnRows(rows)

	counts, err := NewPickRepository(mock).CountsByAuction(context.Background(), auctionID)
	require.NoError(t, err)
	assert.Equal(t, map[ulid.ULID]int{teamA: 3, teamB: 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestPickRepository_NextPickOrder(t *testing.T) {
	auctionID := ulid.Make()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(pick_order\), 0\) \+ 1`).
		WithArgs(auctionID.String()).
		WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(5))

	next, err := NewPickRepository(mock).NextPickOrder(context.Background(), auctionID)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestPickRepository_ListByAuction(t *testing.T) {
	auctionID := ulid.Make()
	pickID := ulid.Make()
	teamID := ulid.Make()
	itemID := ulid.Make()
	now := time.Now().UTC()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "auction_id", "team_id", "item_id", "winning_bid", "pick_order", "slot", "created_at"}).
		AddRow(pickID.String(), auctionID.String(), teamID.String(), itemID.String(), int64(12), 1, strPtr("flex"), now)
	mock.ExpectQuery(`SELECT id, auction_id, team_id, item_id`).
		WithArgs(auctionID.String()).
		WillReturnRows(rows)

	picks, err := NewPickRepository(mock).ListByAuction(context.Background(), auctionID)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, pickID, picks[0].ID)
	assert.Equal(t, teamID, picks[0].TeamID)
	assert.Equal(t, int64(12), picks[0].WinningBid)
	require.NotNil(t, picks[0].Slot)
	assert.Equal(t, "flex", *picks[0].Slot)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}
