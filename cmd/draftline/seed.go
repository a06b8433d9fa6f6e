// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/draftline/draftline/internal/config"
	"github.com/draftline/draftline/internal/seed"
	"github.com/draftline/draftline/internal/store"
)

const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
	migrate bool
}

// newSeedCmd creates the seed subcommand.
func newSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed <draft.yaml>",
		Short: "Load a draft definition into the database",
		Long: `Validates a draft definition file against its schema and loads the
auction, teams, roster slots, items, and credentials it describes.
This command is idempotent for documents with fixed IDs: rows that
already exist are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args[0], cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().BoolVar(&cfg.migrate, "migrate", false, "run pending migrations before seeding")

	return cmd
}

func runSeed(cmd *cobra.Command, path string, seedCfg *seedConfig) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	doc, err := seed.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	if seedCfg.migrate {
		cmd.Println("Running migrations...")
		if err := autoMigrate(cfg.Database.URL); err != nil {
			return err
		}
	}

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	loader, err := seed.NewLoader(pool)
	if err != nil {
		return err
	}
	res, err := loader.Apply(ctx, doc)
	if err != nil {
		return err
	}

	cmd.Printf("Seeded %q: %d inserted, %d already present\n", doc.Auction.Name, res.Inserted, res.Skipped)
	return nil
}
