package main

import (
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "botctl",
		Short:         "Operator tools for the roast bot",
		Long:          "botctl analyzes match files offline, inspects a user's entitlement and usage, lists the voice catalog and issues API tokens for chat integrations.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newTokenCmd(),
		newEntitlementCmd(),
		newUsageCmd(),
		newVoicesCmd(),
	)
	return rootCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
