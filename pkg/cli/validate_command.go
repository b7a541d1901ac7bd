// Package cli implements the sdrf-go commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bigbio/sdrf-go/pkg/console"
	"github.com/bigbio/sdrf-go/pkg/engine"
	"github.com/bigbio/sdrf-go/pkg/logger"
	"github.com/bigbio/sdrf-go/pkg/ontology"
	"github.com/bigbio/sdrf-go/pkg/proof"
	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
	"github.com/bigbio/sdrf-go/pkg/validator"
)

var validateLog = logger.New("cli:validate")

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sdrf-file>",
		Short: "Validate an SDRF file against one or more templates",
		Long: `Validate a tab-separated SDRF file against schema templates.

Templates may be combined with commas; the file is checked against the
union of their requirements. Validation is exhaustive: every finding in
the file is reported, and the command exits non-zero if any finding has
error severity.

Examples:
  sdrf-go validate experiment.sdrf.tsv
  sdrf-go validate experiment.sdrf.tsv --template human,mass-spectrometry
  sdrf-go validate experiment.sdrf.tsv --skip-ontology --json
  sdrf-go validate experiment.sdrf.tsv --proof-out proof.json --proof-salt mylab`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, _ := cmd.Flags().GetString("template")
			schemaDir, _ := cmd.Flags().GetString("schema-dir")
			skipOntology, _ := cmd.Flags().GetBool("skip-ontology")
			cacheOnly, _ := cmd.Flags().GetBool("cache-only")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			asJSON, _ := cmd.Flags().GetBool("json")
			proofOut, _ := cmd.Flags().GetString("proof-out")
			proofSalt, _ := cmd.Flags().GetString("proof-salt")
			return RunValidate(cmd, args[0], ValidateOptions{
				Templates:    templates,
				SchemaDir:    schemaDir,
				SkipOntology: skipOntology,
				CacheOnly:    cacheOnly,
				CacheDir:     cacheDir,
				JSON:         asJSON,
				ProofOut:     proofOut,
				ProofSalt:    proofSalt,
			})
		},
	}

	cmd.Flags().StringP("template", "t", "base", "Template name, or comma-separated names to combine")
	cmd.Flags().String("schema-dir", "", "Load schema templates from this directory instead of the embedded set")
	cmd.Flags().Bool("skip-ontology", false, "Skip ontology term checks")
	cmd.Flags().Bool("cache-only", false, "Never download ontology indices; use the local cache only")
	cmd.Flags().String("cache-dir", "", "Override the ontology cache directory")
	cmd.Flags().Bool("json", false, "Emit the manifest as JSON on stdout")
	cmd.Flags().String("proof-out", "", "Write a validation proof to this path")
	cmd.Flags().String("proof-salt", "", "Salt mixed into the validation proof digest")

	return cmd
}

// ValidateOptions carries the validate command's flag values.
type ValidateOptions struct {
	Templates    string
	SchemaDir    string
	SkipOntology bool
	CacheOnly    bool
	CacheDir     string
	JSON         bool
	ProofOut     string
	ProofSalt    string
}

// ErrValidationFailed is returned when the manifest contains errors, so the
// process exits non-zero while the manifest itself still prints.
var ErrValidationFailed = errors.New("validation failed")

// RunValidate parses, validates and reports on one SDRF file.
func RunValidate(cmd *cobra.Command, path string, opts ValidateOptions) error {
	validateLog.Printf("validating %s against %q", path, opts.Templates)

	table, err := sdrf.ParseTableFile(path)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
		return err
	}

	store, err := openStore(opts.SchemaDir)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
		return err
	}
	sch, err := store.Compose(schema.SplitNames(opts.Templates))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
		return err
	}

	cache, err := ontology.NewCache(ontology.Config{Root: opts.CacheDir, CacheOnly: opts.CacheOnly})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
		return err
	}

	eng := engine.New(
		validator.NewRegistry(),
		validator.Deps{Resolver: ontology.NewResolver(cache)},
		engine.Options{SkipOntology: opts.SkipOntology},
	)
	manifest, err := eng.Validate(cmd.Context(), table, sch)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
		return err
	}

	if opts.ProofOut != "" {
		if err := writeProof(table, sch, manifest, opts.ProofSalt, opts.ProofOut); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatInfoMessage("proof written to "+opts.ProofOut))
	}

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(manifest); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), console.RenderManifest(manifest))
	}

	if manifest.HasErrors() {
		return ErrValidationFailed
	}
	return nil
}

func openStore(dir string) (*schema.Store, error) {
	if dir != "" {
		return schema.NewStoreFromDir(dir)
	}
	return schema.NewStore()
}

func writeProof(table *sdrf.Table, sch *schema.Schema, manifest *sdrf.Manifest, salt, path string) error {
	p, err := proof.Generate(table, sch, manifest, salt)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// NewSchemasCommand creates the schemas command
func NewSchemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the available schema templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := schema.NewStore()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
				return err
			}
			for _, name := range store.Names() {
				sch, err := store.Resolve(name)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
					return err
				}
				line := name
				if sch.Description != "" {
					line += "\t" + sch.Description
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(line, "\t"))
			}
			return nil
		},
	}
}
