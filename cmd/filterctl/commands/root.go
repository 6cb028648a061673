package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	env     string
	format  string
	quiet   bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "filterctl",
	Short: "CLI tool for filtering JSON records",
	Long: `Filterctl filters lists of JSON records by include/exclude conditions.

It can run the filter locally on a file or send the request to a running
record filter service.

Examples:
  filterctl run request.json
  cat request.json | filterctl run - --format yaml
  filterctl post request.json --env prod
  filterctl kinds --base-url http://localhost:8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the record filter API")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "Environment from the config file (dev, prod, ...)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
