// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import "context"

// EventPublisher fans out committed events to an auction's participant
// group. Implementations must be best-effort: Publish is called after the
// state transaction has committed and must never block it or propagate
// failures back to the coordinator. Delivery is at-least-once per connected
// subscriber; reconciliation on reconnect is the client's concern.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// MultiPublisher forwards every event to each wrapped publisher in order.
type MultiPublisher []EventPublisher

// Publish delivers the event to all wrapped publishers.
func (m MultiPublisher) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		p.Publish(ctx, event)
	}
}

var _ EventPublisher = (MultiPublisher)(nil)
