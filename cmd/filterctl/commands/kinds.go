package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/recordfilter/internal/cli"
	"github.com/TimurManjosov/recordfilter/internal/client"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the predicate kinds the service understands",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := cli.ResolveBaseURL(env, baseURL)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		kinds, err := client.NewClient(url).Kinds(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list kinds: %w", err)
		}

		if !quiet {
			for _, k := range kinds {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
