package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bigbio/sdrf-go/pkg/cli"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// Commands print their own errors via console formatting, so cobra's
// default "Error:" line is silenced to avoid double reporting.
var rootCmd = &cobra.Command{
	Use:   "sdrf-go",
	Short: "Validate SDRF sample metadata files",
	Long: `sdrf-go validates tab-separated SDRF sample metadata files against
declarative schema templates, including ontology term checks backed by a
local, integrity-verified index cache.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(cli.NewValidateCommand())
	rootCmd.AddCommand(cli.NewCacheCommand())
	rootCmd.AddCommand(cli.NewSchemasCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
