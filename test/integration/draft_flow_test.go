// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

//go:build integration

// Package integration provides end-to-end integration tests for Draftline.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/draftline/draftline/internal/auction"
	"github.com/draftline/draftline/internal/auth"
	"github.com/draftline/draftline/internal/httpapi"
	"github.com/draftline/draftline/internal/realtime"
)

// testEnv holds the full wired stack: in-memory store, coordinator, auth,
// event hub, and the HTTP server fronting them.
type testEnv struct {
	srv   *httptest.Server
	hub   *realtime.Hub
	store *auction.MemStore

	auctionID ulid.ULID
	teams     []auction.Team
	items     []auction.Item

	managerTokens []string
	commissioner  string
}

// setupTestEnv builds an in-progress three-team draft with one roster slot
// per team, a budget of 10 each, and three items on the board.
func setupTestEnv() (*testEnv, error) {
	store := auction.NewMemStore()
	auctionID := ulid.Make()
	env := &testEnv{store: store, auctionID: auctionID}

	for i := 0; i < 3; i++ {
		team := auction.Team{
			ID:              ulid.Make(),
			AuctionID:       auctionID,
			Name:            fmt.Sprintf("Team %d", i+1),
			NominationOrder: i + 1,
			Budget:          10,
			RemainingBudget: 10,
			Active:          true,
		}
		store.PutTeam(team)
		env.teams = append(env.teams, team)
	}
	store.PutSlotConfig(auction.RosterSlotConfig{
		ID:           ulid.Make(),
		AuctionID:    auctionID,
		Position:     "school",
		SlotsPerTeam: 1,
	})
	for i := 0; i < 3; i++ {
		item := auction.Item{
			ID:        ulid.Make(),
			AuctionID: auctionID,
			Name:      fmt.Sprintf("School %d", i+1),
			Category:  "division-1",
		}
		store.PutItem(item)
		env.items = append(env.items, item)
	}
	nominator := env.teams[0].ID
	store.PutAuction(auction.Auction{
		ID:                 auctionID,
		Name:               "Integration Draft",
		Status:             auction.StatusInProgress,
		MinOpeningBid:      1,
		CurrentNominatorID: &nominator,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.hub = realtime.NewHub(logger, nil)

	coord, err := auction.NewCoordinator(auction.CoordinatorConfig{
		Auctions:  store,
		Teams:     store.Teams(),
		Items:     store.Items(),
		Picks:     store,
		Slots:     store.Slots(),
		Audit:     store.Audit(),
		Tx:        store,
		Publisher: env.hub,
	})
	if err != nil {
		return nil, err
	}

	creds := auth.NewMemoryCredentialRepository()
	for i := range env.teams {
		token, err := addCredential(creds, fmt.Sprintf("manager-%d", i+1), &env.teams[i].ID, false)
		if err != nil {
			return nil, err
		}
		env.managerTokens = append(env.managerTokens, token)
	}
	commissioner, err := addCredential(creds, "commissioner", nil, true)
	if err != nil {
		return nil, err
	}
	env.commissioner = commissioner

	resolver, err := auth.NewResolver(creds)
	if err != nil {
		return nil, err
	}
	handler, err := httpapi.NewHandler(coord, store.Teams(), store, store.Audit())
	if err != nil {
		return nil, err
	}
	env.srv = httptest.NewServer(httpapi.NewRouter(httpapi.RouterConfig{
		Handler:       handler,
		Resolver:      resolver,
		Logger:        logger,
		EventsHandler: env.hub,
	}))
	return env, nil
}

func addCredential(creds *auth.MemoryCredentialRepository, name string, teamID *ulid.ULID, commissioner bool) (string, error) {
	token, hash, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}
	err = creds.Create(context.Background(), &auth.Credential{
		ID:            ulid.Make(),
		ParticipantID: ulid.Make(),
		TeamID:        teamID,
		Name:          name,
		TokenHash:     hash,
		Commissioner:  commissioner,
		Active:        true,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (env *testEnv) teardown() {
	env.srv.Close()
	env.hub.Close()
}

// request issues an authenticated request against the auction's route tree
// and returns the status code and raw body.
func (env *testEnv) request(method, token, path, body string) (int, []byte, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	url := env.srv.URL + "/auctions/" + env.auctionID.String() + path
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := env.srv.Client().Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	return resp.StatusCode, payload, err
}

// receipt mirrors the resolve response wire shape.
type receipt struct {
	Pick struct {
		TeamID     string `json:"team_id"`
		ItemID     string `json:"item_id"`
		WinningBid int64  `json:"winning_bid"`
	} `json:"pick"`
	NextNominatorID  *string `json:"next_nominator_id"`
	AuctionCompleted bool    `json:"auction_completed"`
}

var _ = Describe("Draft flow", func() {
	var env *testEnv

	BeforeEach(func() {
		var err error
		env, err = setupTestEnv()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		env.teardown()
	})

	Describe("Nomination round", func() {
		It("auctions one item over HTTP and debits the winner", func() {
			body := fmt.Sprintf(`{"item_id":%q}`, env.items[0].ID)
			status, _, err := env.request(http.MethodPost, env.managerTokens[0], "/nominate", body)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))

			status, _, err = env.request(http.MethodPost, env.managerTokens[1], "/bid", `{"amount":3}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))

			status, payload, err := env.request(http.MethodPost, env.commissioner, "/resolve", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))

			var rec receipt
			Expect(json.Unmarshal(payload, &rec)).To(Succeed())
			Expect(rec.Pick.TeamID).To(Equal(env.teams[1].ID.String()))
			Expect(rec.Pick.WinningBid).To(Equal(int64(3)))
			Expect(rec.AuctionCompleted).To(BeFalse())

			status, payload, err = env.request(http.MethodGet, env.managerTokens[0], "/teams", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))
			var teams []struct {
				Name            string `json:"name"`
				RemainingBudget int64  `json:"remaining_budget"`
			}
			Expect(json.Unmarshal(payload, &teams)).To(Succeed())
			remaining := map[string]int64{}
			for _, team := range teams {
				remaining[team.Name] = team.RemainingBudget
			}
			Expect(remaining["Team 2"]).To(Equal(int64(7)))
			Expect(remaining["Team 1"]).To(Equal(int64(10)))
		})

		It("rejects an out-of-turn nomination", func() {
			body := fmt.Sprintf(`{"item_id":%q}`, env.items[0].ID)
			status, payload, err := env.request(http.MethodPost, env.managerTokens[1], "/nominate", body)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(string(payload)).To(ContainSubstring("not_your_turn"))
		})
	})

	Describe("Event stream", func() {
		It("delivers committed events to WebSocket subscribers", func() {
			url := "ws" + strings.TrimPrefix(env.srv.URL, "http") +
				"/auctions/" + env.auctionID.String() + "/events"
			header := http.Header{"Authorization": {"Bearer " + env.managerTokens[1]}}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			defer conn.Close()
			Eventually(func() int {
				return env.hub.StreamCount(env.auctionID)
			}).Should(Equal(1))

			body := fmt.Sprintf(`{"item_id":%q}`, env.items[0].ID)
			status, _, err := env.request(http.MethodPost, env.managerTokens[0], "/nominate", body)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))

			Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
			var event auction.Event
			Expect(conn.ReadJSON(&event)).To(Succeed())
			Expect(event.Type).To(Equal(auction.EventBiddingStarted))
			Expect(event.AuctionID).To(Equal(env.auctionID))
		})
	})

	Describe("Draft completion", func() {
		It("completes once every roster slot is filled", func() {
			// One slot per team: each round the nominator wins unopposed at
			// the opening bid, fills its roster, and the turn rotates past
			// the full teams.
			var last receipt
			for round := 0; round < 3; round++ {
				body := fmt.Sprintf(`{"item_id":%q}`, env.items[round].ID)
				status, _, err := env.request(http.MethodPost, env.managerTokens[round], "/nominate", body)
				Expect(err).NotTo(HaveOccurred())
				Expect(status).To(Equal(http.StatusOK))

				status, payload, err := env.request(http.MethodPost, env.commissioner, "/resolve", "")
				Expect(err).NotTo(HaveOccurred())
				Expect(status).To(Equal(http.StatusOK))
				Expect(json.Unmarshal(payload, &last)).To(Succeed())
				Expect(last.Pick.TeamID).To(Equal(env.teams[round].ID.String()))
			}
			Expect(last.AuctionCompleted).To(BeTrue())
			Expect(last.NextNominatorID).To(BeNil())

			status, payload, err := env.request(http.MethodGet, env.managerTokens[0], "/state", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(http.StatusOK))
			var state struct {
				Status string `json:"status"`
			}
			Expect(json.Unmarshal(payload, &state)).To(Succeed())
			Expect(state.Status).To(Equal(string(auction.StatusCompleted)))
		})
	})
})
