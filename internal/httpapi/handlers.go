// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auction"
)

// Coordinator is the slice of the draft coordinator the API depends on.
type Coordinator interface {
	Nominate(ctx context.Context, actor auction.Actor, auctionID, itemID ulid.ULID) (*auction.NominationReceipt, error)
	Bid(ctx context.Context, actor auction.Actor, auctionID ulid.ULID, amount int64) (*auction.BidReceipt, error)
	Pass(ctx context.Context, actor auction.Actor, auctionID ulid.ULID) (*auction.PassReceipt, error)
	Resolve(ctx context.Context, actor auction.Actor, auctionID ulid.ULID) (*auction.PickReceipt, error)
	State(ctx context.Context, auctionID ulid.ULID) (*auction.Snapshot, error)
}

// Handler serves the auction endpoints.
type Handler struct {
	coord Coordinator
	teams auction.TeamRepository
	picks auction.PickRepository
	audit auction.AuditRepository
}

// NewHandler wires the API handler. All dependencies are required.
func NewHandler(coord Coordinator, teams auction.TeamRepository, picks auction.PickRepository, audit auction.AuditRepository) (*Handler, error) {
	if coord == nil || teams == nil || picks == nil || audit == nil {
		return nil, oops.Code("INVALID_DEPENDENCY").New("handler requires coordinator and repositories")
	}
	return &Handler{coord: coord, teams: teams, picks: picks, audit: audit}, nil
}

type nominateRequest struct {
	ItemID string `json:"item_id"`
}

type bidRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) nominate(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}
	var req nominateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	itemID, err := ulid.Parse(req.ItemID)
	if err != nil {
		writeErr(w, http.StatusBadRequest, apiError{Code: "INVALID_ITEM_ID", Message: "item_id must be a ULID"})
		return
	}

	receipt, err := h.coord.Nominate(r.Context(), actorFromContext(r.Context()), auctionID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nominationResponse{
		ItemID:      receipt.ItemID.String(),
		OpeningBid:  receipt.OpeningBid,
		NominatorID: receipt.NominatorID.String(),
	})
}

func (h *Handler) bid(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}
	var req bidRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.coord.Bid(r.Context(), actorFromContext(r.Context()), auctionID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bidResponse{
		ItemID:   receipt.ItemID.String(),
		Amount:   receipt.Amount,
		BidderID: receipt.BidderID.String(),
	})
}

func (h *Handler) pass(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}

	receipt, err := h.coord.Pass(r.Context(), actorFromContext(r.Context()), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := passResponse{
		ItemID:        receipt.ItemID.String(),
		RoundResolved: receipt.RoundResolved,
	}
	if receipt.Pick != nil {
		resp.Pick = pickReceiptResponse(receipt.Pick)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}

	receipt, err := h.coord.Resolve(r.Context(), actorFromContext(r.Context()), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pickReceiptResponse(receipt))
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}

	snap, err := h.coord.State(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		AuctionID:           snap.AuctionID.String(),
		Status:              string(snap.Status),
		ActiveItemID:        ulidString(snap.ActiveItemID),
		CurrentHighBid:      snap.CurrentHighBid,
		CurrentHighBidderID: ulidString(snap.CurrentHighBidderID),
		CurrentNominatorID:  ulidString(snap.CurrentNominatorID),
		Version:             snap.Version,
	})
}

func (h *Handler) listTeams(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}

	teams, err := h.teams.ListByAuction(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		out = append(out, teamResponse{
			ID:              team.ID.String(),
			Name:            team.Name,
			NominationOrder: team.NominationOrder,
			Budget:          team.Budget,
			RemainingBudget: team.RemainingBudget,
			Active:          team.Active,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listPicks(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}

	picks, err := h.picks.ListByAuction(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]pickResponse, 0, len(picks))
	for _, pick := range picks {
		out = append(out, pickToResponse(pick))
	}
	writeJSON(w, http.StatusOK, out)
}

const defaultAuditLimit = 100

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := pathULID(w, r, "auctionID")
	if !ok {
		return
	}
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeErr(w, http.StatusBadRequest, apiError{Code: "INVALID_LIMIT", Message: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.audit.ListByAuction(r.Context(), auctionID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]auditResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, auditResponse{
			ID:        entry.ID.String(),
			ItemID:    entry.ItemID.String(),
			TeamID:    ulidString(entry.TeamID),
			Kind:      string(entry.Kind),
			Amount:    entry.Amount,
			CreatedAt: entry.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// actorFromContext converts the authenticated principal into a coordinator
// actor. The auth middleware guarantees a principal is present on every
// route that reaches a handler.
func actorFromContext(ctx context.Context) auction.Actor {
	principal := PrincipalFromContext(ctx)
	if principal == nil {
		return auction.Actor{}
	}
	return auction.Actor{
		ParticipantID: principal.ParticipantID,
		TeamID:        principal.TeamID,
		Commissioner:  principal.Commissioner,
	}
}

func pathULID(w http.ResponseWriter, r *http.Request, param string) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeErr(w, http.StatusNotFound, apiError{Code: "NOT_FOUND", Message: "resource not found"})
		return ulid.ULID{}, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, apiError{Code: "INVALID_BODY", Message: "request body is not valid JSON for this endpoint"})
		return false
	}
	return true
}

func ulidString(id *ulid.ULID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
