package main

import (
	"github.com/krzotki/eleven-labs-demo/internal/quota"
	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	var user, dsn, dashboard string
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show a user's daily and cycle usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := openLedger(cmd.Context(), dsn, dashboard)
			if err != nil {
				return err
			}
			defer l.close()

			period := l.entitlements.Resolve(cmd.Context(), user)
			snap, err := l.usage.Snapshot(cmd.Context(), user, period)
			if err != nil {
				return err
			}
			limits := l.limits.For(period.Type)
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"period":  period,
				"limits":  limits,
				"daily":   snap.Daily,
				"monthly": snap.Monthly,
				"quality": quota.SelectQuality(limits, snap.Monthly),
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "chat-platform user id")
	addStoreFlags(cmd, &dsn, &dashboard)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
