// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// EventType identifies the kind of domain event.
type EventType string

const (
	EventBiddingStarted    EventType = "bidding_started"
	EventBidPlaced         EventType = "bid_placed"
	EventParticipantPassed EventType = "participant_passed"
	EventItemWon           EventType = "item_won"
	EventTurnAdvanced      EventType = "turn_advanced"
	EventAuctionCompleted  EventType = "auction_completed"
)

// Event is a committed state change addressed to an auction's participant
// group. Events are emitted strictly after the underlying transaction
// commits, in commit order per auction.
type Event struct {
	ID         ulid.ULID       `json:"id"`
	Type       EventType       `json:"type"`
	AuctionID  ulid.ULID       `json:"auction_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// BiddingStartedPayload accompanies EventBiddingStarted.
type BiddingStartedPayload struct {
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
	OpeningBid  int64  `json:"opening_bid"`
	NominatorID string `json:"nominator_id"`
}

// BidPlacedPayload accompanies EventBidPlaced.
type BidPlacedPayload struct {
	ItemID   string `json:"item_id"`
	Amount   int64  `json:"amount"`
	BidderID string `json:"bidder_id"`
}

// ParticipantPassedPayload accompanies EventParticipantPassed.
type ParticipantPassedPayload struct {
	ItemID string  `json:"item_id"`
	TeamID *string `json:"team_id,omitempty"`
}

// ItemWonPayload accompanies EventItemWon.
type ItemWonPayload struct {
	ItemID     string `json:"item_id"`
	TeamID     string `json:"team_id"`
	WinningBid int64  `json:"winning_bid"`
	PickOrder  int    `json:"pick_order"`
}

// TurnAdvancedPayload accompanies EventTurnAdvanced.
type TurnAdvancedPayload struct {
	NominatorID string `json:"nominator_id"`
}

// newEvent builds an Event with a freshly minted ID and marshalled payload.
func newEvent(eventType EventType, auctionID ulid.ULID, at time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, oops.Code("EVENT_MARSHAL_FAILED").
			With("event_type", string(eventType)).
			Wrap(err)
	}
	return Event{
		ID:         ulid.Make(),
		Type:       eventType,
		AuctionID:  auctionID,
		OccurredAt: at,
		Payload:    raw,
	}, nil
}
