// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package httpapi serves the draft coordination REST API.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftline/draftline/internal/auction"
	"github.com/draftline/draftline/internal/auth"
	"github.com/draftline/draftline/pkg/errutil"
)

// apiError is the wire shape of an error response.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// MaxBid is set on budget rejections so clients can correct without
	// another round trip.
	MaxBid *int64 `json:"max_bid,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

func writeErr(w http.ResponseWriter, status int, apiErr apiError) {
	writeJSON(w, status, errorEnvelope{Error: apiErr})
}

// writeDomainError maps domain errors to HTTP responses. Rejections are
// 400 with the reject code; conflicts are 409 and retryable; unknown
// entities are 404. Anything else is an internal error and is logged
// with its full context.
func writeDomainError(w http.ResponseWriter, err error) {
	if rej, ok := auction.AsRejection(err); ok {
		apiErr := apiError{Code: string(rej.Code), Message: rej.Reason}
		// Budget rejections always carry the computed ceiling, even when
		// it is zero: a zero ceiling tells the client no bid can work.
		if rej.Code == auction.RejectInsufficientBudget {
			maxBid := rej.MaxBid
			apiErr.MaxBid = &maxBid
		}
		writeErr(w, http.StatusBadRequest, apiErr)
		return
	}
	if conflict, ok := auction.AsConflict(err); ok {
		writeErr(w, http.StatusConflict, apiError{Code: "CONFLICT", Message: conflict.Reason})
		return
	}
	if errors.Is(err, auction.ErrNotFound) {
		writeErr(w, http.StatusNotFound, apiError{Code: "NOT_FOUND", Message: "resource not found"})
		return
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		writeErr(w, http.StatusUnauthorized, apiError{Code: "UNAUTHORIZED", Message: "invalid or missing token"})
		return
	}

	errutil.LogError(slog.Default(), "request failed", err)
	writeErr(w, http.StatusInternalServerError, apiError{Code: "INTERNAL", Message: "internal error"})
}
