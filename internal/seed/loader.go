// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/draftline/draftline/internal/auth"
)

// execer is the single query surface the loader needs. Satisfied by
// *pgxpool.Pool and pgxmock pools.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Load reads, schema-validates, and decodes a draft definition file, then
// applies the semantic checks the schema cannot express.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}
	if err := doc.check(); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}
	return &doc, nil
}

// check enforces cross-field rules: unique names and nomination orders,
// credentials referencing known teams, and budgets large enough to fill
// every roster slot at the minimum opening bid.
func (d *Document) check() error {
	totalSlots := 0
	for _, slot := range d.Slots {
		totalSlots += slot.SlotsPerTeam
	}

	teamNames := make(map[string]struct{}, len(d.Teams))
	orders := make(map[int]struct{}, len(d.Teams))
	for _, team := range d.Teams {
		if _, dup := teamNames[team.Name]; dup {
			return fmt.Errorf("duplicate team name %q", team.Name)
		}
		teamNames[team.Name] = struct{}{}
		if _, dup := orders[team.NominationOrder]; dup {
			return fmt.Errorf("duplicate nomination order %d", team.NominationOrder)
		}
		orders[team.NominationOrder] = struct{}{}
		if minimum := int64(totalSlots) * d.Auction.MinOpeningBid; team.Budget < minimum {
			return fmt.Errorf("team %q budget %d cannot fill %d slots at minimum bid %d",
				team.Name, team.Budget, totalSlots, d.Auction.MinOpeningBid)
		}
	}

	itemNames := make(map[string]struct{}, len(d.Items))
	for _, item := range d.Items {
		if _, dup := itemNames[item.Name]; dup {
			return fmt.Errorf("duplicate item name %q", item.Name)
		}
		itemNames[item.Name] = struct{}{}
	}

	for _, cred := range d.Credentials {
		if cred.Team == "" {
			continue
		}
		if _, ok := teamNames[cred.Team]; !ok {
			return fmt.Errorf("credential %q references unknown team %q", cred.Name, cred.Team)
		}
	}
	return nil
}

// Result reports what Apply inserted and what already existed.
type Result struct {
	Inserted int
	Skipped  int
}

// Loader writes draft definitions into the database.
type Loader struct {
	db execer
}

// NewLoader creates a Loader.
func NewLoader(db execer) (*Loader, error) {
	if db == nil {
		return nil, oops.Code("LOADER_DB_REQUIRED").New("database handle is required")
	}
	return &Loader{db: db}, nil
}

// Apply inserts the document's rows. Reapplying the same document with
// fixed IDs is safe: unique violations count as skips, everything else
// fails the load.
func (l *Loader) Apply(ctx context.Context, doc *Document) (*Result, error) {
	res := &Result{}

	auctionID, err := seedID(doc.Auction.ID)
	if err != nil {
		return nil, oops.Code("SEED_APPLY_FAILED").With("field", "auction.id").Wrap(err)
	}
	err = l.insert(ctx, res,
		`INSERT INTO auctions (id, name, status, min_opening_bid) VALUES ($1, $2, 'draft', $3)`,
		auctionID.String(), doc.Auction.Name, doc.Auction.MinOpeningBid)
	if err != nil {
		return nil, err
	}

	teamIDs := make(map[string]ulid.ULID, len(doc.Teams))
	for _, team := range doc.Teams {
		teamID, err := seedID(team.ID)
		if err != nil {
			return nil, oops.Code("SEED_APPLY_FAILED").With("team", team.Name).Wrap(err)
		}
		teamIDs[team.Name] = teamID
		err = l.insert(ctx, res,
			`INSERT INTO teams (id, auction_id, name, nomination_order, budget, remaining_budget, active)
			 VALUES ($1, $2, $3, $4, $5, $5, TRUE)`,
			teamID.String(), auctionID.String(), team.Name, team.NominationOrder, team.Budget)
		if err != nil {
			return nil, err
		}
	}

	for _, slot := range doc.Slots {
		err = l.insert(ctx, res,
			`INSERT INTO roster_slot_configs (id, auction_id, position, slots_per_team) VALUES ($1, $2, $3, $4)`,
			ulid.Make().String(), auctionID.String(), slot.Position, slot.SlotsPerTeam)
		if err != nil {
			return nil, err
		}
	}

	for _, item := range doc.Items {
		itemID, err := seedID(item.ID)
		if err != nil {
			return nil, oops.Code("SEED_APPLY_FAILED").With("item", item.Name).Wrap(err)
		}
		err = l.insert(ctx, res,
			`INSERT INTO items (id, auction_id, name, category, projected_value) VALUES ($1, $2, $3, $4, $5)`,
			itemID.String(), auctionID.String(), item.Name, item.Category, item.ProjectedValue)
		if err != nil {
			return nil, err
		}
	}

	for _, cred := range doc.Credentials {
		var teamID *string
		if cred.Team != "" {
			s := teamIDs[cred.Team].String()
			teamID = &s
		}
		err = l.insert(ctx, res,
			`INSERT INTO draft_credentials (id, participant_id, team_id, name, token_hash, commissioner, active)
			 VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
			ulid.Make().String(), ulid.Make().String(), teamID, cred.Name,
			auth.HashToken(cred.Token), cred.Commissioner)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// insert runs one INSERT, counting unique violations as skips.
func (l *Loader) insert(ctx context.Context, res *Result, sql string, args ...any) error {
	_, err := l.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			res.Skipped++
			return nil
		}
		return oops.Code("SEED_APPLY_FAILED").Wrap(err)
	}
	res.Inserted++
	return nil
}

// seedID parses a fixed ID from the document or mints a fresh one.
func seedID(raw string) (ulid.ULID, error) {
	if raw == "" {
		return ulid.Make(), nil
	}
	return ulid.Parse(raw)
}
