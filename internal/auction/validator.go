// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

// Validation is pure and side-effect free: every function here inspects
// already-loaded state and returns nil or a *Rejection. Nothing is mutated
// on rejection, so callers may retry freely.

// ValidateNomination checks whether team may open bidding on item. The
// itemDrafted flag is the persisted "already won" lookup result for item.
func ValidateNomination(a *Auction, team *Team, ledger RosterLedger, item *Item, itemDrafted bool) error {
	if a.Status != StatusInProgress {
		return rejectf(RejectAuctionNotInProgress, "auction is %s, not in progress", a.Status)
	}
	if a.ActiveItemID != nil {
		return rejectf(RejectBiddingActive, "bidding is already open on another item")
	}
	if !team.Active {
		return rejectf(RejectTeamInactive, "team %s is not active", team.Name)
	}
	if a.CurrentNominatorID != nil && *a.CurrentNominatorID != team.ID {
		return rejectf(RejectNotYourTurn, "it is not your turn to nominate")
	}
	if itemDrafted {
		return rejectf(RejectItemAlreadyDrafted, "%s has already been drafted", item.Name)
	}
	if ledger.RemainingSlots() < 1 {
		return rejectf(RejectRosterFull, "roster is full")
	}
	if !ledger.CanAfford(a.MinOpeningBid) {
		r := rejectf(RejectInsufficientBudget,
			"cannot cover the opening bid of %d and still fill remaining slots", a.MinOpeningBid)
		r.MaxBid = ledger.MaxBid()
		return r
	}
	return nil
}

// ValidateBid checks whether team may raise to amount on the active item.
func ValidateBid(a *Auction, team *Team, ledger RosterLedger, amount int64) error {
	if a.Status != StatusInProgress {
		return rejectf(RejectAuctionNotInProgress, "auction is %s, not in progress", a.Status)
	}
	if a.ActiveItemID == nil || a.CurrentHighBid == nil {
		return rejectf(RejectNoActiveBidding, "no item is up for bidding")
	}
	if !team.Active {
		return rejectf(RejectTeamInactive, "team %s is not active", team.Name)
	}
	if amount <= *a.CurrentHighBid {
		return rejectf(RejectBidTooLow, "bid must exceed the current high bid of %d", *a.CurrentHighBid)
	}
	if ledger.RemainingSlots() < 1 {
		return rejectf(RejectRosterFull, "roster is full")
	}
	if !ledger.CanAfford(amount) {
		r := rejectf(RejectInsufficientBudget,
			"bid of %d exceeds the affordable maximum of %d", amount, ledger.MaxBid())
		r.MaxBid = ledger.MaxBid()
		return r
	}
	return nil
}

// ValidatePass checks whether a pass may be recorded. Passing only requires
// an active round; it never needs to be the caller's turn.
func ValidatePass(a *Auction) error {
	if a.Status != StatusInProgress {
		return rejectf(RejectAuctionNotInProgress, "auction is %s, not in progress", a.Status)
	}
	if a.ActiveItemID == nil {
		return rejectf(RejectNoActiveBidding, "no item is up for bidding")
	}
	return nil
}
