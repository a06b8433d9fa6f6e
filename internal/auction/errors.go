// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// RejectCode identifies why a nomination, bid, or pass was refused.
type RejectCode string

const (
	RejectAuctionNotInProgress RejectCode = "auction_not_in_progress"
	RejectBiddingActive        RejectCode = "bidding_active"
	RejectNoActiveBidding      RejectCode = "no_active_bidding"
	RejectNotYourTurn          RejectCode = "not_your_turn"
	RejectNoTeam               RejectCode = "no_team"
	RejectTeamInactive         RejectCode = "team_inactive"
	RejectItemAlreadyDrafted   RejectCode = "item_already_drafted"
	RejectRosterFull           RejectCode = "roster_full"
	RejectBidTooLow            RejectCode = "bid_too_low"
	RejectInsufficientBudget   RejectCode = "insufficient_budget"
	RejectNotCommissioner      RejectCode = "not_commissioner"
)

// Rejection is a validation failure. The operation was refused before any
// state change; the caller can correct the request and retry. MaxBid is the
// computed affordable ceiling when the rejection is budget-related, zero
// otherwise.
type Rejection struct {
	Code   RejectCode
	Reason string
	MaxBid int64
}

func (r *Rejection) Error() string {
	return r.Reason
}

// rejectf builds a Rejection with a formatted reason.
func rejectf(code RejectCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Conflict is returned when a concurrent operation invalidated the caller's
// assumptions (stale version, lost bid race resolved at the persistence
// layer). Clients should refresh state and retry rather than correct input.
type Conflict struct {
	Reason string
}

func (c *Conflict) Error() string {
	return c.Reason
}

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	ok := errors.As(err, &r)
	return r, ok
}

// AsConflict unwraps err into a *Conflict if it is one.
func AsConflict(err error) (*Conflict, bool) {
	var c *Conflict
	ok := errors.As(err, &c)
	return c, ok
}
