package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/recordfilter/internal/cli"
	"github.com/TimurManjosov/recordfilter/internal/client"
)

var postCmd = &cobra.Command{
	Use:   "post <file|->",
	Short: "Send a request document to the filter service",
	Long: `Post a request document to a running record filter service and print
the matching records.

Examples:
  filterctl post request.json --env prod
  filterctl post - --base-url http://localhost:8080 < request.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := cli.ResolveBaseURL(env, baseURL)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		body, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "POST %s/v1/filter (%d bytes)\n", url, len(body))
		}

		c := client.NewClient(url)
		records, err := c.Filter(context.Background(), body)
		if err != nil {
			return fmt.Errorf("failed to filter records: %w", err)
		}

		if quiet {
			return nil
		}
		return cli.PrintRecords(cmd.OutOrStdout(), records, cli.OutputFormat(format))
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
}
