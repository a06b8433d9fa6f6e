// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package natspub bridges auction events onto NATS subjects so other
// services (archival, analytics) can consume them without touching the
// coordinator.
package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/samber/oops"

	"github.com/draftline/draftline/internal/auction"
)

// conn is the slice of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher publishes auction events to NATS. It implements
// auction.EventPublisher; publish failures are logged and dropped, never
// surfaced to the coordinator.
type Publisher struct {
	conn          conn
	subjectPrefix string
	logger        *slog.Logger
}

// Connect dials NATS and returns a Publisher using subjectPrefix for all
// subjects, e.g. "draftline.auction".
func Connect(url, subjectPrefix string, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("draftline"))
	if err != nil {
		return nil, oops.Code("NATS_CONNECT_FAILED").With("url", url).Wrap(err)
	}
	return NewPublisher(nc, subjectPrefix, logger)
}

// NewPublisher wraps an existing connection.
func NewPublisher(nc conn, subjectPrefix string, logger *slog.Logger) (*Publisher, error) {
	if nc == nil {
		return nil, oops.Code("NATS_CONN_REQUIRED").New("nats connection is required")
	}
	if subjectPrefix == "" {
		return nil, oops.Code("NATS_PREFIX_REQUIRED").New("subject prefix is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: nc, subjectPrefix: subjectPrefix, logger: logger}, nil
}

// Publish sends the event to <prefix>.<auction id>.<event type>, so
// consumers can subscribe per auction ("prefix.01ABC....>") or per event
// kind across auctions ("prefix.*.bid_placed").
func (p *Publisher) Publish(_ context.Context, event auction.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("event marshal failed", "event_id", event.ID.String(), "error", err)
		return
	}
	subject := p.subject(event)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("nats publish failed", "subject", subject, "error", err)
	}
}

func (p *Publisher) subject(event auction.Event) string {
	return fmt.Sprintf("%s.%s.%s", p.subjectPrefix, event.AuctionID, event.Type)
}

// Close drains the connection, flushing buffered publishes.
func (p *Publisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		return oops.Code("NATS_DRAIN_FAILED").Wrap(err)
	}
	return nil
}

var _ auction.EventPublisher = (*Publisher)(nil)
