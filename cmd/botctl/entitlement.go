package main

import (
	"github.com/spf13/cobra"
)

func newEntitlementCmd() *cobra.Command {
	var user, dsn, dashboard string
	cmd := &cobra.Command{
		Use:   "entitlement",
		Short: "Show the subscription tier and limits a user resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := openLedger(cmd.Context(), dsn, dashboard)
			if err != nil {
				return err
			}
			defer l.close()

			period := l.entitlements.Resolve(cmd.Context(), user)
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"period": period,
				"limits": l.limits.For(period.Type),
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "chat-platform user id")
	addStoreFlags(cmd, &dsn, &dashboard)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
