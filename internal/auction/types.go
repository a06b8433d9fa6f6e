// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package auction contains the nomination/bidding coordinator, its
// validation rules, and the domain types it operates on.
package auction

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Status identifies the lifecycle phase of an auction.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Auction is the mutable per-draft state owned by the Coordinator while
// in progress. CurrentHighBid is nil exactly when ActiveItemID is nil.
type Auction struct {
	ID                  ulid.ULID
	Name                string
	Status              Status
	MinOpeningBid       int64
	CurrentNominatorID  *ulid.ULID
	ActiveItemID        *ulid.ULID
	CurrentHighBid      *int64
	CurrentHighBidderID *ulid.ULID

	// Version guards optimistic concurrency on the mutable fields above.
	// Repositories increment it on every successful state write.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team is a draft participant with a budget and a slot in the nomination
// rotation. Monetary amounts are whole currency units.
type Team struct {
	ID              ulid.ULID
	AuctionID       ulid.ULID
	Name            string
	NominationOrder int
	Budget          int64
	RemainingBudget int64
	Active          bool
	CreatedAt       time.Time
}

// Item is an auctioned entity. Immutable once imported.
type Item struct {
	ID             ulid.ULID
	AuctionID      ulid.ULID
	Name           string
	Category       string
	ProjectedValue int64
	CreatedAt      time.Time
}

// RosterSlotConfig defines how many roster slots of a given position each
// team must fill. The sum of SlotsPerTeam across an auction's configs is
// the total roster capacity per team.
type RosterSlotConfig struct {
	ID           ulid.ULID
	AuctionID    ulid.ULID
	Position     string
	SlotsPerTeam int
}

// DraftPick records a won item. Created exactly once per item and never
// mutated afterwards.
type DraftPick struct {
	ID         ulid.ULID
	AuctionID  ulid.ULID
	TeamID     ulid.ULID
	ItemID     ulid.ULID
	WinningBid int64
	PickOrder  int
	Slot       *string
	CreatedAt  time.Time
}

// AuditKind identifies the kind of audited action.
type AuditKind string

const (
	AuditNominate AuditKind = "nominate"
	AuditBid      AuditKind = "bid"
	AuditPass     AuditKind = "pass"
)

// AuditEntry is one row of the append-only action ledger. Entries are
// written in the same transaction as the state change they accompany and
// are never updated or deleted.
type AuditEntry struct {
	ID        ulid.ULID
	AuctionID ulid.ULID
	ItemID    ulid.ULID
	// TeamID is nil for passes by participants without a team.
	TeamID    *ulid.ULID
	Kind      AuditKind
	Amount    int64
	CreatedAt time.Time
}

// Actor identifies the authenticated caller of a coordinator operation.
// TeamID is nil for participants without a team (observers, commissioners).
type Actor struct {
	ParticipantID ulid.ULID
	TeamID        *ulid.ULID
	Commissioner  bool
}

// Snapshot is a read-only projection of an auction's bidding state, as
// served by GET /auctions/{id}/state.
type Snapshot struct {
	AuctionID           ulid.ULID
	Status              Status
	ActiveItemID        *ulid.ULID
	CurrentHighBid      *int64
	CurrentHighBidderID *ulid.ULID
	CurrentNominatorID  *ulid.ULID
	Version             int64
}
