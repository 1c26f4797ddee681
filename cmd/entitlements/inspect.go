package main

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errUserRequired = errors.New("--user is required")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile one user with the billing service and print the summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.service.Sync(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printJSON(cmd, sum)
	},
}

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Print the listing quota decision for one user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return printJSON(cmd, a.service.CheckQuota(cmd.Context(), userID))
	},
}

func init() {
	for _, c := range []*cobra.Command{syncCmd, quotaCmd} {
		c.Flags().String("user", "", "user id (UUID)")
	}
}

func userFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("user")
	if raw == "" {
		return uuid.Nil, errUserRequired
	}
	return uuid.Parse(raw)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
