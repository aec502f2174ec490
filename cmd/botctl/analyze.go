package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/krzotki/eleven-labs-demo/internal/match"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		file    string
		puuid   string
		name    string
		aliases []string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute roast stats from a saved match JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read match file: %w", err)
			}
			var m match.Match
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("decode match file: %w", err)
			}

			aliasMap := make(map[string]string, len(aliases))
			for _, a := range aliases {
				summoner, real, ok := strings.Cut(a, "=")
				if !ok || summoner == "" {
					return fmt.Errorf("invalid alias %q, want summoner=name", a)
				}
				aliasMap[summoner] = real
			}

			stats, err := match.Analyze(&m, puuid, name, aliasMap)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a match-v5 JSON document")
	cmd.Flags().StringVar(&puuid, "puuid", "", "puuid of the analyzed player")
	cmd.Flags().StringVar(&name, "name", "", "display name override")
	cmd.Flags().StringArrayVar(&aliases, "alias", nil, "summoner=name alias, repeatable")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("puuid")
	return cmd
}
