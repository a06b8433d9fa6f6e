// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MemStore is an in-memory implementation of every repository interface
// plus the Transactor, for tests. Transactions snapshot the whole store
// and restore it when fn fails, matching the all-or-nothing commit
// semantics of the postgres implementation.
type MemStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	auctions map[ulid.ULID]Auction
	teams    map[ulid.ULID]Team
	items    map[ulid.ULID]Item
	slots    []RosterSlotConfig
	picks    []DraftPick
	audits   []AuditEntry
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		auctions: make(map[ulid.ULID]Auction),
		teams:    make(map[ulid.ULID]Team),
		items:    make(map[ulid.ULID]Item),
	}
}

// PutAuction inserts or replaces an auction. Test setup helper.
func (s *MemStore) PutAuction(a Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[a.ID] = a
}

// PutTeam inserts or replaces a team. Test setup helper.
func (s *MemStore) PutTeam(t Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

// PutItem inserts or replaces an item. Test setup helper.
func (s *MemStore) PutItem(i Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[i.ID] = i
}

// PutSlotConfig appends a roster slot config. Test setup helper.
func (s *MemStore) PutSlotConfig(c RosterSlotConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = append(s.slots, c)
}

// Get implements AuctionRepository.
func (s *MemStore) Get(_ context.Context, id ulid.ULID) (*Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[id]
	if !ok {
		return nil, oops.Code("AUCTION_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	copied := a
	return &copied, nil
}

// UpdateState implements AuctionRepository with an optimistic version check.
func (s *MemStore) UpdateState(_ context.Context, a *Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.auctions[a.ID]
	if !ok {
		return oops.Code("AUCTION_NOT_FOUND").With("id", a.ID.String()).Wrap(ErrNotFound)
	}
	if stored.Version != a.Version {
		return &Conflict{Reason: "auction state changed concurrently"}
	}
	a.Version++
	s.auctions[a.ID] = *a
	return nil
}

// GetTeam implements TeamRepository.Get via the Teams view.
func (s *MemStore) getTeam(id ulid.ULID) (*Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, oops.Code("TEAM_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	copied := t
	return &copied, nil
}

// Teams returns the store as a TeamRepository.
func (s *MemStore) Teams() TeamRepository { return (*memTeams)(s) }

// Items returns the store as an ItemRepository.
func (s *MemStore) Items() ItemRepository { return (*memItems)(s) }

type memTeams MemStore

func (s *memTeams) Get(_ context.Context, id ulid.ULID) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*MemStore)(s).getTeam(id)
}

func (s *memTeams) ListByAuction(_ context.Context, auctionID ulid.ULID) ([]Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var teams []Team
	for _, t := range s.teams {
		if t.AuctionID == auctionID {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (s *memTeams) DebitBudget(_ context.Context, id ulid.ULID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return oops.Code("TEAM_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	if t.RemainingBudget < amount {
		return oops.Code("BUDGET_UNDERFLOW").
			With("team_id", id.String()).
			With("remaining", t.RemainingBudget).
			With("amount", amount).
			Errorf("debit exceeds remaining budget")
	}
	t.RemainingBudget -= amount
	s.teams[id] = t
	return nil
}

type memItems MemStore

func (s *memItems) Get(_ context.Context, id ulid.ULID) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.items[id]
	if !ok {
		return nil, oops.Code("ITEM_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	copied := i
	return &copied, nil
}

// Create implements PickRepository. The won-once and pick order constraints
// mirror the unique indexes of the postgres schema.
func (s *MemStore) Create(_ context.Context, pick *DraftPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.picks {
		if p.ItemID == pick.ItemID {
			return &Conflict{Reason: "item already drafted"}
		}
		if p.AuctionID == pick.AuctionID && p.PickOrder == pick.PickOrder {
			return &Conflict{Reason: "pick order already taken"}
		}
	}
	s.picks = append(s.picks, *pick)
	return nil
}

// ExistsByItem implements PickRepository.
func (s *MemStore) ExistsByItem(_ context.Context, itemID ulid.ULID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.picks {
		if p.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

// CountsByAuction implements PickRepository.
func (s *MemStore) CountsByAuction(_ context.Context, auctionID ulid.ULID) (map[ulid.ULID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[ulid.ULID]int)
	for _, p := range s.picks {
		if p.AuctionID == auctionID {
			counts[p.TeamID]++
		}
	}
	return counts, nil
}

// NextPickOrder implements PickRepository.
func (s *MemStore) NextPickOrder(_ context.Context, auctionID ulid.ULID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 1
	for _, p := range s.picks {
		if p.AuctionID == auctionID && p.PickOrder >= next {
			next = p.PickOrder + 1
		}
	}
	return next, nil
}

// ListByAuction implements PickRepository.
func (s *MemStore) ListByAuction(_ context.Context, auctionID ulid.ULID) ([]DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var picks []DraftPick
	for _, p := range s.picks {
		if p.AuctionID == auctionID {
			picks = append(picks, p)
		}
	}
	return picks, nil
}

// TotalCapacity implements SlotConfigRepository.
func (s *MemStore) TotalCapacity(_ context.Context, auctionID ulid.ULID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, c := range s.slots {
		if c.AuctionID == auctionID {
			total += c.SlotsPerTeam
		}
	}
	return total, nil
}

// ListSlotConfigs implements SlotConfigRepository.ListByAuction.
func (s *MemStore) ListSlotConfigs(_ context.Context, auctionID ulid.ULID) ([]RosterSlotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var configs []RosterSlotConfig
	for _, c := range s.slots {
		if c.AuctionID == auctionID {
			configs = append(configs, c)
		}
	}
	return configs, nil
}

// Slots returns the store as a SlotConfigRepository.
func (s *MemStore) Slots() SlotConfigRepository { return (*memSlots)(s) }

type memSlots MemStore

func (s *memSlots) TotalCapacity(ctx context.Context, auctionID ulid.ULID) (int, error) {
	return (*MemStore)(s).TotalCapacity(ctx, auctionID)
}

func (s *memSlots) ListByAuction(ctx context.Context, auctionID ulid.ULID) ([]RosterSlotConfig, error) {
	return (*MemStore)(s).ListSlotConfigs(ctx, auctionID)
}

// Append implements AuditRepository.
func (s *MemStore) Append(_ context.Context, entry *AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, *entry)
	return nil
}

// ListAudit implements AuditRepository.ListByAuction.
func (s *MemStore) ListAudit(_ context.Context, auctionID ulid.ULID, limit int) ([]AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []AuditEntry
	for _, e := range s.audits {
		if e.AuctionID == auctionID {
			entries = append(entries, e)
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Audit returns the store as an AuditRepository.
func (s *MemStore) Audit() AuditRepository { return (*memAudit)(s) }

type memAudit MemStore

func (s *memAudit) Append(ctx context.Context, entry *AuditEntry) error {
	return (*MemStore)(s).Append(ctx, entry)
}

func (s *memAudit) ListByAuction(ctx context.Context, auctionID ulid.ULID, limit int) ([]AuditEntry, error) {
	return (*MemStore)(s).ListAudit(ctx, auctionID, limit)
}

// InTransaction implements Transactor. The store is snapshotted up front
// and restored when fn fails, so partial writes never survive.
func (s *MemStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	auctions map[ulid.ULID]Auction
	teams    map[ulid.ULID]Team
	items    map[ulid.ULID]Item
	slots    []RosterSlotConfig
	picks    []DraftPick
	audits   []AuditEntry
}

func (s *MemStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		auctions: make(map[ulid.ULID]Auction, len(s.auctions)),
		teams:    make(map[ulid.ULID]Team, len(s.teams)),
		items:    make(map[ulid.ULID]Item, len(s.items)),
		slots:    append([]RosterSlotConfig(nil), s.slots...),
		picks:    append([]DraftPick(nil), s.picks...),
		audits:   append([]AuditEntry(nil), s.audits...),
	}
	for k, v := range s.auctions {
		snap.auctions[k] = v
	}
	for k, v := range s.teams {
		snap.teams[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	return snap
}

func (s *MemStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions = snap.auctions
	s.teams = snap.teams
	s.items = snap.items
	s.slots = snap.slots
	s.picks = snap.picks
	s.audits = snap.audits
}

// Compile-time interface checks.
var (
	_ AuctionRepository    = (*MemStore)(nil)
	_ PickRepository       = (*MemStore)(nil)
	_ TeamRepository       = (*memTeams)(nil)
	_ ItemRepository       = (*memItems)(nil)
	_ SlotConfigRepository = (*memSlots)(nil)
	_ AuditRepository      = (*memAudit)(nil)
	_ Transactor           = (*MemStore)(nil)
)
