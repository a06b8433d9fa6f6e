// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package httpapi

import (
	"time"

	"github.com/draftline/draftline/internal/auction"
)

type nominationResponse struct {
	ItemID      string `json:"item_id"`
	OpeningBid  int64  `json:"opening_bid"`
	NominatorID string `json:"nominator_id"`
}

type bidResponse struct {
	ItemID   string `json:"item_id"`
	Amount   int64  `json:"amount"`
	BidderID string `json:"bidder_id"`
}

type passResponse struct {
	ItemID        string       `json:"item_id"`
	RoundResolved bool         `json:"round_resolved"`
	Pick          *pickReceipt `json:"pick,omitempty"`
}

type pickReceipt struct {
	Pick             pickResponse `json:"pick"`
	NextNominatorID  *string      `json:"next_nominator_id"`
	AuctionCompleted bool         `json:"auction_completed"`
}

type pickResponse struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"team_id"`
	ItemID     string    `json:"item_id"`
	WinningBid int64     `json:"winning_bid"`
	PickOrder  int       `json:"pick_order"`
	Slot       *string   `json:"slot,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type stateResponse struct {
	AuctionID           string  `json:"auction_id"`
	Status              string  `json:"status"`
	ActiveItemID        *string `json:"active_item_id"`
	CurrentHighBid      *int64  `json:"current_high_bid"`
	CurrentHighBidderID *string `json:"current_high_bidder_id"`
	CurrentNominatorID  *string `json:"current_nominator_id"`
	Version             int64   `json:"version"`
}

type teamResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	NominationOrder int    `json:"nomination_order"`
	Budget          int64  `json:"budget"`
	RemainingBudget int64  `json:"remaining_budget"`
	Active          bool   `json:"active"`
}

type auditResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	TeamID    *string   `json:"team_id"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func pickToResponse(pick auction.DraftPick) pickResponse {
	return pickResponse{
		ID:         pick.ID.String(),
		TeamID:     pick.TeamID.String(),
		ItemID:     pick.ItemID.String(),
		WinningBid: pick.WinningBid,
		PickOrder:  pick.PickOrder,
		Slot:       pick.Slot,
		CreatedAt:  pick.CreatedAt,
	}
}

func pickReceiptResponse(receipt *auction.PickReceipt) *pickReceipt {
	return &pickReceipt{
		Pick:             pickToResponse(receipt.Pick),
		NextNominatorID:  ulidString(receipt.NextNominatorID),
		AuctionCompleted: receipt.AuctionCompleted,
	}
}
