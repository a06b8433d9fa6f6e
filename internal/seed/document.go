// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

// Package seed loads draft definition files: the auction, its teams,
// roster slot configuration, item catalog, and access credentials, in one
// YAML document validated against a generated JSON Schema.
package seed

// Document is a complete draft definition.
type Document struct {
	Auction     AuctionSeed      `yaml:"auction" json:"auction" jsonschema:"required"`
	Teams       []TeamSeed       `yaml:"teams" json:"teams" jsonschema:"required,minItems=2"`
	Slots       []SlotSeed       `yaml:"slots" json:"slots" jsonschema:"required,minItems=1"`
	Items       []ItemSeed       `yaml:"items" json:"items" jsonschema:"required,minItems=1"`
	Credentials []CredentialSeed `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// AuctionSeed describes the auction row. ID is optional; a fixed ID makes
// reseeding idempotent.
type AuctionSeed struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"pattern=^[0-9A-HJKMNP-TV-Z]{26}$"`
	Name          string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	MinOpeningBid int64  `yaml:"min_opening_bid" json:"min_opening_bid" jsonschema:"required,minimum=1"`
}

// TeamSeed describes one participating team.
type TeamSeed struct {
	ID              string `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"pattern=^[0-9A-HJKMNP-TV-Z]{26}$"`
	Name            string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	NominationOrder int    `yaml:"nomination_order" json:"nomination_order" jsonschema:"required,minimum=1"`
	Budget          int64  `yaml:"budget" json:"budget" jsonschema:"required,minimum=1"`
}

// SlotSeed describes a roster slot position and how many of it each team
// must fill.
type SlotSeed struct {
	Position     string `yaml:"position" json:"position" jsonschema:"required,minLength=1"`
	SlotsPerTeam int    `yaml:"slots_per_team" json:"slots_per_team" jsonschema:"required,minimum=1"`
}

// ItemSeed describes one auctionable item.
type ItemSeed struct {
	ID             string `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"pattern=^[0-9A-HJKMNP-TV-Z]{26}$"`
	Name           string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Category       string `yaml:"category,omitempty" json:"category,omitempty"`
	ProjectedValue int64  `yaml:"projected_value,omitempty" json:"projected_value,omitempty" jsonschema:"minimum=0"`
}

// CredentialSeed describes a bearer credential. Token is the plaintext
// token to issue; only its hash is stored. Team is the team name from the
// same document, empty for a teamless credential.
type CredentialSeed struct {
	Name         string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Token        string `yaml:"token" json:"token" jsonschema:"required,minLength=16"`
	Team         string `yaml:"team,omitempty" json:"team,omitempty"`
	Commissioner bool   `yaml:"commissioner,omitempty" json:"commissioner,omitempty"`
}
