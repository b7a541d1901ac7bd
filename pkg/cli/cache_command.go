package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bigbio/sdrf-go/pkg/console"
	"github.com/bigbio/sdrf-go/pkg/logger"
	"github.com/bigbio/sdrf-go/pkg/ontology"
)

var cacheCmdLog = logger.New("cli:cache")

// NewCacheCommand creates the cache command group
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local ontology index cache",
	}
	cmd.PersistentFlags().String("cache-dir", "", "Override the ontology cache directory")

	cmd.AddCommand(newCacheDownloadCommand())
	cmd.AddCommand(newCacheInfoCommand())
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

func cacheFromFlags(cmd *cobra.Command) (*ontology.Cache, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	cache, err := ontology.NewCache(ontology.Config{Root: dir})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
	}
	return cache, err
}

func newCacheDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [acronym...]",
		Short: "Download ontology indices into the local cache",
		Long: `Download ontology index artifacts into the local cache.

Without arguments every registered ontology is downloaded; acronyms limit
the set. Artifacts already cached with a valid checksum are skipped unless
--force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			cache, err := cacheFromFlags(cmd)
			if err != nil {
				return err
			}
			cacheCmdLog.Printf("downloading ontology indices to %s acronyms=%v force=%v", cache.Root(), args, force)
			if len(args) == 0 {
				err = cache.DownloadAll(cmd.Context(), force)
			} else {
				err = cache.Download(cmd.Context(), args, force)
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage("ontology indices downloaded to "+cache.Root()))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Refetch indices even when a valid cached copy exists")
	return cmd
}

func newCacheInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the cache state of every registered ontology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			cache, err := cacheFromFlags(cmd)
			if err != nil {
				return err
			}
			entries := cache.Info()
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatInfoMessage("cache directory: "+cache.Root()))
			for _, entry := range entries {
				state := "missing"
				switch {
				case entry.Cached && entry.Valid:
					state = "cached"
				case entry.Cached:
					state = "corrupt"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-10s %s\n", entry.Acronym, state, entry.Artifact)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Emit cache state as JSON")
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [acronym...]",
		Short: "Remove cached ontology indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := cacheFromFlags(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				err = cache.Clear()
			} else {
				for _, acronym := range args {
					if err = cache.Invalidate(acronym); err != nil {
						break
					}
				}
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage("ontology cache cleared"))
			return nil
		},
	}
}
