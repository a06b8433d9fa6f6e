// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the draftline CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draftline",
		Short: "Draftline - a live auction draft coordinator",
		Long: `Draftline coordinates live auction drafts: nominations, open
bidding with budget reserves, and an append-only audit trail, served over
a REST API with live event streams.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}
