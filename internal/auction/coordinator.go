// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CoordinatorConfig holds dependencies for the Coordinator.
type CoordinatorConfig struct {
	Auctions  AuctionRepository
	Teams     TeamRepository
	Items     ItemRepository
	Picks     PickRepository
	Slots     SlotConfigRepository
	Audit     AuditRepository
	Tx        Transactor
	Publisher EventPublisher   // optional
	Metrics   *Metrics         // optional
	Clock     func() time.Time // optional, defaults to time.Now
}

// Coordinator owns the mutable bidding state of every auction. All four
// mutating operations (Nominate, Bid, Pass, Resolve) serialize per auction
// identity through an in-process lock, and the auction row's version column
// guards against concurrent writers in other processes. Events are
// published strictly after the transaction commits, while the per-auction
// lock is still held, so publication order matches commit order.
type Coordinator struct {
	auctions  AuctionRepository
	teams     TeamRepository
	items     ItemRepository
	picks     PickRepository
	slots     SlotConfigRepository
	audit     AuditRepository
	tx        Transactor
	publisher EventPublisher
	metrics   *Metrics
	clock     func() time.Time

	mu    sync.Mutex
	locks map[ulid.ULID]*sync.Mutex
	// passed tracks, per auction, the teams that passed since the last
	// accepted bid or nomination. Used by the all-passed resolve trigger.
	passed map[ulid.ULID]map[ulid.ULID]struct{}
}

// NewCoordinator creates a Coordinator. All repositories and the
// transactor are required; publisher, metrics, and clock are optional.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Auctions == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("auction repository is required")
	}
	if cfg.Teams == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("team repository is required")
	}
	if cfg.Items == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("item repository is required")
	}
	if cfg.Picks == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("pick repository is required")
	}
	if cfg.Slots == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("slot config repository is required")
	}
	if cfg.Audit == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("audit repository is required")
	}
	if cfg.Tx == nil {
		return nil, oops.Code("COORDINATOR_CONFIG_INVALID").Errorf("transactor is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Coordinator{
		auctions:  cfg.Auctions,
		teams:     cfg.Teams,
		items:     cfg.Items,
		picks:     cfg.Picks,
		slots:     cfg.Slots,
		audit:     cfg.Audit,
		tx:        cfg.Tx,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		clock:     clock,
		locks:     make(map[ulid.ULID]*sync.Mutex),
		passed:    make(map[ulid.ULID]map[ulid.ULID]struct{}),
	}, nil
}

// NominationReceipt is returned by a successful Nominate.
type NominationReceipt struct {
	ItemID      ulid.ULID
	OpeningBid  int64
	NominatorID ulid.ULID
}

// BidReceipt is returned by a successful Bid.
type BidReceipt struct {
	ItemID   ulid.ULID
	Amount   int64
	BidderID ulid.ULID
}

// PassReceipt is returned by a successful Pass. RoundResolved is true when
// the pass was the last one outstanding and the round settled automatically.
type PassReceipt struct {
	ItemID        ulid.ULID
	RoundResolved bool
	Pick          *PickReceipt
}

// PickReceipt is returned by a successful Resolve.
type PickReceipt struct {
	Pick             DraftPick
	NextNominatorID  *ulid.ULID
	AuctionCompleted bool
}

// lockFor returns the mutex serializing operations on one auction.
func (c *Coordinator) lockFor(auctionID ulid.ULID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[auctionID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[auctionID] = l
	}
	return l
}

// Nominate opens a bidding round on item with the auction's minimum
// opening bid placed automatically by the nominating team.
func (c *Coordinator) Nominate(ctx context.Context, actor Actor, auctionID, itemID ulid.ULID) (*NominationReceipt, error) {
	lock := c.lockFor(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := c.auctions.Get(ctx, auctionID)
	if err != nil {
		return nil, c.fail("nominate", err)
	}
	team, err := c.actorTeam(ctx, actor, a)
	if err != nil {
		return nil, c.fail("nominate", err)
	}
	item, err := c.items.Get(ctx, itemID)
	if err != nil {
		return nil, c.fail("nominate", err)
	}
	if item.AuctionID != a.ID {
		return nil, c.fail("nominate", oops.Code("ITEM_WRONG_AUCTION").
			With("item_id", itemID.String()).
			Wrap(ErrNotFound))
	}
	drafted, err := c.picks.ExistsByItem(ctx, itemID)
	if err != nil {
		return nil, c.fail("nominate", err)
	}
	ledger, err := c.ledgerFor(ctx, a, team)
	if err != nil {
		return nil, c.fail("nominate", err)
	}
	if err := ValidateNomination(a, team, ledger, item, drafted); err != nil {
		return nil, c.fail("nominate", err)
	}

	now := c.clock().UTC()
	openingBid := a.MinOpeningBid
	a.ActiveItemID = &item.ID
	a.CurrentHighBid = &openingBid
	a.CurrentHighBidderID = &team.ID
	a.UpdatedAt = now

	entry := &AuditEntry{
		ID:        ulid.Make(),
		AuctionID: a.ID,
		ItemID:    item.ID,
		TeamID:    &team.ID,
		Kind:      AuditNominate,
		Amount:    openingBid,
		CreatedAt: now,
	}
	err = c.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := c.auctions.UpdateState(ctx, a); err != nil {
			return err
		}
		return c.audit.Append(ctx, entry)
	})
	if err != nil {
		return nil, c.fail("nominate", err)
	}

	c.resetPasses(a.ID)
	c.record("nominate", outcomeAccepted)
	if c.metrics != nil {
		c.metrics.ActiveRounds.Inc()
	}
	c.emit(ctx, EventBiddingStarted, a.ID, now, BiddingStartedPayload{
		ItemID:      item.ID.String(),
		ItemName:    item.Name,
		OpeningBid:  openingBid,
		NominatorID: team.ID.String(),
	})
	return &NominationReceipt{ItemID: item.ID, OpeningBid: openingBid, NominatorID: team.ID}, nil
}

// Bid raises the high bid on the active item. Amount must strictly exceed
// the current high bid and respect the caller's budget reserve.
func (c *Coordinator) Bid(ctx context.Context, actor Actor, auctionID ulid.ULID, amount int64) (*BidReceipt, error) {
	lock := c.lockFor(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := c.auctions.Get(ctx, auctionID)
	if err != nil {
		return nil, c.fail("bid", err)
	}
	team, err := c.actorTeam(ctx, actor, a)
	if err != nil {
		return nil, c.fail("bid", err)
	}
	ledger, err := c.ledgerFor(ctx, a, team)
	if err != nil {
		return nil, c.fail("bid", err)
	}
	if err := ValidateBid(a, team, ledger, amount); err != nil {
		return nil, c.fail("bid", err)
	}

	now := c.clock().UTC()
	itemID := *a.ActiveItemID
	a.CurrentHighBid = &amount
	a.CurrentHighBidderID = &team.ID
	a.UpdatedAt = now

	entry := &AuditEntry{
		ID:        ulid.Make(),
		AuctionID: a.ID,
		ItemID:    itemID,
		TeamID:    &team.ID,
		Kind:      AuditBid,
		Amount:    amount,
		CreatedAt: now,
	}
	err = c.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := c.auctions.UpdateState(ctx, a); err != nil {
			return err
		}
		return c.audit.Append(ctx, entry)
	})
	if err != nil {
		return nil, c.fail("bid", err)
	}

	// A new high bid reopens the round for everyone who had passed.
	c.resetPasses(a.ID)
	c.record("bid", outcomeAccepted)
	c.emit(ctx, EventBidPlaced, a.ID, now, BidPlacedPayload{
		ItemID:   itemID.String(),
		Amount:   amount,
		BidderID: team.ID.String(),
	})
	return &BidReceipt{ItemID: itemID, Amount: amount, BidderID: team.ID}, nil
}

// Pass records that the actor declines to raise. Passing never changes the
// high bid. When every eligible team other than the current high bidder
// has passed since the last accepted bid, the round resolves automatically.
func (c *Coordinator) Pass(ctx context.Context, actor Actor, auctionID ulid.ULID) (*PassReceipt, error) {
	lock := c.lockFor(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := c.auctions.Get(ctx, auctionID)
	if err != nil {
		return nil, c.fail("pass", err)
	}
	if err := ValidatePass(a); err != nil {
		return nil, c.fail("pass", err)
	}

	now := c.clock().UTC()
	itemID := *a.ActiveItemID
	entry := &AuditEntry{
		ID:        ulid.Make(),
		AuctionID: a.ID,
		ItemID:    itemID,
		TeamID:    actor.TeamID,
		Kind:      AuditPass,
		Amount:    0,
		CreatedAt: now,
	}
	err = c.tx.InTransaction(ctx, func(ctx context.Context) error {
		return c.audit.Append(ctx, entry)
	})
	if err != nil {
		return nil, c.fail("pass", err)
	}

	c.record("pass", outcomeAccepted)
	var teamID *string
	if actor.TeamID != nil {
		s := actor.TeamID.String()
		teamID = &s
		c.markPassed(a.ID, *actor.TeamID)
	}
	c.emit(ctx, EventParticipantPassed, a.ID, now, ParticipantPassedPayload{
		ItemID: itemID.String(),
		TeamID: teamID,
	})

	receipt := &PassReceipt{ItemID: itemID}
	allOut, err := c.allContendersPassed(ctx, a)
	if err != nil {
		// The pass itself is committed; resolution can still be triggered
		// explicitly, so surface the pass as accepted and log the check.
		slog.Warn("auto-resolve eligibility check failed",
			"auction_id", a.ID.String(),
			"error", err,
		)
		return receipt, nil
	}
	if allOut {
		pick, resolveErr := c.resolveLocked(ctx, a)
		if resolveErr != nil {
			slog.Warn("auto-resolve failed; round stays open",
				"auction_id", a.ID.String(),
				"error", resolveErr,
			)
			return receipt, nil
		}
		receipt.RoundResolved = true
		receipt.Pick = pick
	}
	return receipt, nil
}

// Resolve settles the active round into a draft pick. Restricted to
// commissioner credentials; the all-passed trigger resolves automatically
// without one.
func (c *Coordinator) Resolve(ctx context.Context, actor Actor, auctionID ulid.ULID) (*PickReceipt, error) {
	if !actor.Commissioner {
		return nil, c.fail("resolve", rejectf(RejectNotCommissioner, "only the commissioner can close bidding"))
	}

	lock := c.lockFor(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := c.auctions.Get(ctx, auctionID)
	if err != nil {
		return nil, c.fail("resolve", err)
	}
	return c.resolveLocked(ctx, a)
}

// State returns the committed bidding snapshot for an auction.
func (c *Coordinator) State(ctx context.Context, auctionID ulid.ULID) (*Snapshot, error) {
	a, err := c.auctions.Get(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		AuctionID:           a.ID,
		Status:              a.Status,
		ActiveItemID:        a.ActiveItemID,
		CurrentHighBid:      a.CurrentHighBid,
		CurrentHighBidderID: a.CurrentHighBidderID,
		CurrentNominatorID:  a.CurrentNominatorID,
		Version:             a.Version,
	}, nil
}

// resolveLocked settles the active round. Caller must hold the auction lock.
func (c *Coordinator) resolveLocked(ctx context.Context, a *Auction) (*PickReceipt, error) {
	if a.ActiveItemID == nil || a.CurrentHighBid == nil || a.CurrentHighBidderID == nil {
		return nil, c.fail("resolve", rejectf(RejectNoActiveBidding, "no item is up for bidding"))
	}
	start := time.Now()

	winnerID := *a.CurrentHighBidderID
	itemID := *a.ActiveItemID
	winningBid := *a.CurrentHighBid

	pickOrder, err := c.picks.NextPickOrder(ctx, a.ID)
	if err != nil {
		return nil, c.fail("resolve", err)
	}
	snapshots, err := c.teamSnapshots(ctx, a, winnerID)
	if err != nil {
		return nil, c.fail("resolve", err)
	}

	now := c.clock().UTC()
	pick := &DraftPick{
		ID:         ulid.Make(),
		AuctionID:  a.ID,
		TeamID:     winnerID,
		ItemID:     itemID,
		WinningBid: winningBid,
		PickOrder:  pickOrder,
		CreatedAt:  now,
	}

	next, hasNext := NextNominator(a.CurrentNominatorID, snapshots)
	a.ActiveItemID = nil
	a.CurrentHighBid = nil
	a.CurrentHighBidderID = nil
	a.UpdatedAt = now
	if hasNext {
		a.CurrentNominatorID = &next
	} else {
		a.CurrentNominatorID = nil
		a.Status = StatusCompleted
	}

	err = c.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := c.picks.Create(ctx, pick); err != nil {
			return err
		}
		if err := c.teams.DebitBudget(ctx, winnerID, winningBid); err != nil {
			return err
		}
		return c.auctions.UpdateState(ctx, a)
	})
	if err != nil {
		return nil, c.fail("resolve", err)
	}

	c.resetPasses(a.ID)
	c.record("resolve", outcomeAccepted)
	if c.metrics != nil {
		c.metrics.PicksTotal.Inc()
		c.metrics.ActiveRounds.Dec()
		c.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}
	c.emit(ctx, EventItemWon, a.ID, now, ItemWonPayload{
		ItemID:     itemID.String(),
		TeamID:     winnerID.String(),
		WinningBid: winningBid,
		PickOrder:  pickOrder,
	})
	if hasNext {
		c.emit(ctx, EventTurnAdvanced, a.ID, now, TurnAdvancedPayload{NominatorID: next.String()})
	} else {
		c.emit(ctx, EventAuctionCompleted, a.ID, now, struct{}{})
	}

	receipt := &PickReceipt{Pick: *pick, AuctionCompleted: !hasNext}
	if hasNext {
		receipt.NextNominatorID = &next
	}
	return receipt, nil
}

// actorTeam loads and checks the actor's team for operations that need one.
func (c *Coordinator) actorTeam(ctx context.Context, actor Actor, a *Auction) (*Team, error) {
	if actor.TeamID == nil {
		return nil, rejectf(RejectNoTeam, "a team is required for this action")
	}
	team, err := c.teams.Get(ctx, *actor.TeamID)
	if err != nil {
		return nil, err
	}
	if team.AuctionID != a.ID {
		return nil, rejectf(RejectNoTeam, "team does not belong to this auction")
	}
	return team, nil
}

// ledgerFor builds the team's roster ledger from persisted state.
func (c *Coordinator) ledgerFor(ctx context.Context, a *Auction, team *Team) (RosterLedger, error) {
	capacity, err := c.slots.TotalCapacity(ctx, a.ID)
	if err != nil {
		return RosterLedger{}, err
	}
	counts, err := c.picks.CountsByAuction(ctx, a.ID)
	if err != nil {
		return RosterLedger{}, err
	}
	return RosterLedger{
		Capacity:        capacity,
		PicksMade:       counts[team.ID],
		RemainingBudget: team.RemainingBudget,
	}, nil
}

// teamSnapshots builds turn-order snapshots, counting the pick that is
// being created for the winner in the same transaction.
func (c *Coordinator) teamSnapshots(ctx context.Context, a *Auction, winnerID ulid.ULID) ([]TeamSnapshot, error) {
	teams, err := c.teams.ListByAuction(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	capacity, err := c.slots.TotalCapacity(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	counts, err := c.picks.CountsByAuction(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	snapshots := make([]TeamSnapshot, 0, len(teams))
	for _, t := range teams {
		picksMade := counts[t.ID]
		if t.ID == winnerID {
			picksMade++
		}
		snapshots = append(snapshots, TeamSnapshot{
			ID:              t.ID,
			NominationOrder: t.NominationOrder,
			Active:          t.Active,
			PicksMade:       picksMade,
			Capacity:        capacity,
		})
	}
	return snapshots, nil
}

// allContendersPassed reports whether every active team that could still
// outbid — everyone except the current high bidder and teams with full
// rosters — has passed since the last accepted bid.
func (c *Coordinator) allContendersPassed(ctx context.Context, a *Auction) (bool, error) {
	if a.CurrentHighBidderID == nil {
		return false, nil
	}
	teams, err := c.teams.ListByAuction(ctx, a.ID)
	if err != nil {
		return false, err
	}
	capacity, err := c.slots.TotalCapacity(ctx, a.ID)
	if err != nil {
		return false, err
	}
	counts, err := c.picks.CountsByAuction(ctx, a.ID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	passed := c.passed[a.ID]
	c.mu.Unlock()

	for _, t := range teams {
		if !t.Active || t.ID == *a.CurrentHighBidderID {
			continue
		}
		if counts[t.ID] >= capacity {
			continue
		}
		if _, ok := passed[t.ID]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *Coordinator) markPassed(auctionID, teamID ulid.ULID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.passed[auctionID]
	if !ok {
		set = make(map[ulid.ULID]struct{})
		c.passed[auctionID] = set
	}
	set[teamID] = struct{}{}
}

func (c *Coordinator) resetPasses(auctionID ulid.ULID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.passed, auctionID)
}

// emit publishes a committed event. Publication is best-effort; marshal
// failures are logged and the operation's success is not affected.
func (c *Coordinator) emit(ctx context.Context, eventType EventType, auctionID ulid.ULID, at time.Time, payload any) {
	if c.publisher == nil {
		return
	}
	event, err := newEvent(eventType, auctionID, at, payload)
	if err != nil {
		slog.Error("dropping undeliverable event",
			"event_type", string(eventType),
			"auction_id", auctionID.String(),
			"error", err,
		)
		return
	}
	c.publisher.Publish(ctx, event)
}

// fail records the outcome metric for a failed operation and returns err.
func (c *Coordinator) fail(op string, err error) error {
	switch {
	case isRejectionErr(err):
		c.record(op, outcomeRejected)
	case isConflictErr(err):
		c.record(op, outcomeConflict)
	default:
		c.record(op, outcomeError)
	}
	return err
}

func (c *Coordinator) record(op, outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.OperationsTotal.WithLabelValues(op, outcome).Inc()
}

func isRejectionErr(err error) bool {
	_, ok := AsRejection(err)
	return ok
}

func isConflictErr(err error) bool {
	_, ok := AsConflict(err)
	return ok
}
