package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/krzotki/eleven-labs-demo/internal/logger"
	"github.com/krzotki/eleven-labs-demo/internal/service"
	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	var baseURL string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the catalog voices and the bot account's character balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := os.Getenv("ELEVEN_LABS_API_KEY")
			if key == "" {
				return errors.New("ELEVEN_LABS_API_KEY is not set")
			}
			if baseURL == "" {
				baseURL = os.Getenv("ELEVEN_LABS_BASE_URL")
			}
			client := service.NewSpeechClient(baseURL, key, "", "", logger.New())

			voices, err := client.Voices(cmd.Context())
			if err != nil {
				return err
			}
			balance, err := client.CharacterUsage(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"voices": voices, "characters": balance})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tPREMIUM")
			for _, v := range voices {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\n", v.ID, v.Name, v.Premium)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "characters: %d/%d\n", balance.Count, balance.Limit)
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "ElevenLabs API base URL (defaults to ELEVEN_LABS_BASE_URL)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
