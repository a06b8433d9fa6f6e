// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package realtime streams committed auction events to WebSocket
// subscribers. Delivery is best-effort: a subscriber that cannot keep up
// is disconnected rather than allowed to stall the broadcast path.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/draftline/draftline/internal/auction"
	"github.com/draftline/draftline/internal/observability"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before it is
	// considered dead. Pings go out at pingPeriod, which must be shorter.
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	// streamBuffer is the per-subscriber event backlog. A full buffer
	// marks the subscriber as too slow and drops the connection.
	streamBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens before the upgrade, via the bearer token middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// stream is one subscriber connection.
type stream struct {
	auctionID ulid.ULID
	conn      *websocket.Conn
	send      chan auction.Event
}

// Hub fans out auction events to connected subscribers, keyed by auction.
// It implements auction.EventPublisher.
type Hub struct {
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	streams map[ulid.ULID]map[*stream]struct{}
	closed  bool
}

// NewHub creates a Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		metrics: metrics,
		streams: make(map[ulid.ULID]map[*stream]struct{}),
	}
}

// Publish delivers the event to every subscriber of its auction. Slow
// subscribers are dropped instead of blocking the caller.
func (h *Hub) Publish(_ context.Context, event auction.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var stalled []*stream
	for s := range h.streams[event.AuctionID] {
		select {
		case s.send <- event:
			if h.metrics != nil {
				h.metrics.EventsBroadcast.Inc()
			}
		default:
			stalled = append(stalled, s)
		}
	}
	for _, s := range stalled {
		h.logger.Warn("dropping stalled event subscriber",
			"auction_id", event.AuctionID.String())
		if h.metrics != nil {
			h.metrics.EventsDropped.Inc()
		}
		h.removeLocked(s)
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams events for the
// auction named in the route until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auctionID, err := ulid.Parse(chi.URLParam(r, "auctionID"))
	if err != nil {
		http.Error(w, "auction not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s := &stream{
		auctionID: auctionID,
		conn:      conn,
		send:      make(chan auction.Event, streamBuffer),
	}
	if !h.add(s) {
		conn.Close()
		return
	}

	go s.writePump()
	s.readPump()
	h.remove(s)
}

// Close disconnects every subscriber and rejects new ones. Safe to call
// more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, streams := range h.streams {
		for s := range streams {
			close(s.send)
		}
	}
	h.streams = make(map[ulid.ULID]map[*stream]struct{})
	if h.metrics != nil {
		h.metrics.EventStreams.Set(0)
	}
}

// StreamCount reports the number of subscribers for an auction.
func (h *Hub) StreamCount(auctionID ulid.ULID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams[auctionID])
}

func (h *Hub) add(s *stream) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	group, ok := h.streams[s.auctionID]
	if !ok {
		group = make(map[*stream]struct{})
		h.streams[s.auctionID] = group
	}
	group[s] = struct{}{}
	if h.metrics != nil {
		h.metrics.EventStreams.Inc()
	}
	return true
}

func (h *Hub) remove(s *stream) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

// removeLocked detaches the stream and closes its send channel, which in
// turn ends the write pump. Callers hold h.mu.
func (h *Hub) removeLocked(s *stream) {
	group, ok := h.streams[s.auctionID]
	if !ok {
		return
	}
	if _, member := group[s]; !member {
		return
	}
	delete(group, s)
	if len(group) == 0 {
		delete(h.streams, s.auctionID)
	}
	close(s.send)
	if h.metrics != nil {
		h.metrics.EventStreams.Dec()
	}
}

// writePump serializes events onto the connection and keeps it alive with
// periodic pings. Exits when the send channel closes or a write fails.
func (s *stream) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := s.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes and discards client frames so pong handling and close
// detection work. Returns when the connection drops.
func (s *stream) readPump() {
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var _ auction.EventPublisher = (*Hub)(nil)
