package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/recordfilter/internal/cli"
	"github.com/TimurManjosov/recordfilter/internal/filter"
	"github.com/TimurManjosov/recordfilter/internal/logging"
	"github.com/TimurManjosov/recordfilter/internal/predicate"
)

var runCmd = &cobra.Command{
	Use:   "run <file|->",
	Short: "Filter a request document locally",
	Long: `Run the filter on a request document without contacting a server.
The document must be an object with "data" and "condition" members.
Use "-" to read it from stdin.

Examples:
  filterctl run request.json
  filterctl run - --format table < request.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		log := zerolog.Nop()
		if verbose {
			if log, err = logging.New(cmd.ErrOrStderr(), "debug", "console"); err != nil {
				return err
			}
		}

		svc := filter.NewService(predicate.Default(), log)
		text := string(body)
		res, err := svc.Filter(context.Background(), &text)
		if err != nil {
			return fmt.Errorf("failed to parse request: %w", err)
		}
		if !res.OK() {
			for _, msg := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return res.Err()
		}

		if quiet {
			return nil
		}
		return cli.PrintRecords(cmd.OutOrStdout(), res.Records, cli.OutputFormat(format))
	},
}

// readInput reads the named file, or stdin when name is "-".
func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
