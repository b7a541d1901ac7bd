// Package engine orchestrates a validation run: it binds a resolved schema
// to a parsed table, runs every applicable validator, and assembles the
// findings into a manifest.
package engine

import (
	"context"
	"fmt"

	"github.com/bigbio/sdrf-go/pkg/logger"
	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
	"github.com/bigbio/sdrf-go/pkg/validator"
)

var engineLog = logger.New("engine:engine")

// Options tunes a validation run.
type Options struct {
	// SkipOntology disables ontology validators entirely. Useful offline
	// or for a quick structural pass.
	SkipOntology bool
}

// Engine runs schemas against tables. It is stateless between runs and
// safe for concurrent use.
type Engine struct {
	registry *validator.Registry
	deps     validator.Deps
	opts     Options
}

// New builds an engine over a validator registry.
func New(registry *validator.Registry, deps validator.Deps, opts Options) *Engine {
	return &Engine{registry: registry, deps: deps, opts: opts}
}

// Validate runs every check the schema prescribes against the table and
// returns the complete manifest. Validation is exhaustive: a finding never
// stops the run. A non-nil error means the run itself could not be
// performed (for example a schema referencing an unknown validator type)
// and no manifest is produced.
func (e *Engine) Validate(ctx context.Context, table *sdrf.Table, sch *schema.Schema) (*sdrf.Manifest, error) {
	engineLog.Printf("validating against schema %q: columns=%d rows=%d", sch.Name, table.ColumnCount(), table.RowCount())

	var issues []sdrf.Issue

	if sch.MinColumns > 0 && table.ColumnCount() < sch.MinColumns {
		issues = append(issues, sdrf.Issue{
			Code:     sdrf.CodeCardinalityViolation,
			Severity: sdrf.SeverityWarning,
			Row:      sdrf.NoRow,
			Message:  fmt.Sprintf("file has %d columns, expected at least %d", table.ColumnCount(), sch.MinColumns),
		})
	}

	for _, field := range sch.Fields {
		cells, present := table.Column(field.SDRFName)
		if !present {
			if field.Required {
				issues = append(issues, sdrf.Issue{
					Code:       sdrf.CodeMissingRequiredColumn,
					Severity:   sdrf.SeverityError,
					Column:     field.SDRFName,
					Row:        sdrf.NoRow,
					Message:    fmt.Sprintf("required column %q is missing", field.SDRFName),
					Suggestion: fmt.Sprintf("add a %q column", field.SDRFName),
				})
			}
			continue
		}

		issues = append(issues, screenCells(field, cells)...)

		col := validator.Column{
			Field: field,
			Name:  field.SDRFName,
			Cells: cells,
			Width: table.ColumnCount(),
		}
		for _, spec := range field.Validators {
			if e.opts.SkipOntology && spec.Type == "ontology" {
				continue
			}
			v, err := e.registry.New(spec, e.deps)
			if err != nil {
				return nil, err
			}
			found, err := v.Validate(ctx, col)
			if err != nil {
				return nil, fmt.Errorf("validator %q failed on column %q: %w", spec.Type, field.SDRFName, err)
			}
			issues = append(issues, found...)
		}
	}

	manifest := sdrf.NewManifest(issues)
	engineLog.Printf("validation finished: errors=%d warnings=%d", manifest.ErrorCount(), manifest.WarningCount())
	return manifest, nil
}

// screenCells applies the per-field sentinel and emptiness policy: a
// sentinel in a field that does not permit it is a finding, as is an
// empty cell in a required field. Permitted sentinels and empty optional
// cells pass and are skipped by content validators.
func screenCells(field schema.Field, cells []string) []sdrf.Issue {
	var issues []sdrf.Issue
	for row, cell := range cells {
		switch {
		case sdrf.IsNotApplicable(cell):
			if !field.AllowNotApplicable {
				issues = append(issues, sdrf.Issue{
					Code:     sdrf.CodeNotApplicableForbidden,
					Severity: sdrf.SeverityError,
					Column:   field.SDRFName,
					Row:      row,
					Message:  fmt.Sprintf("%q is not permitted in this column", sdrf.NotApplicable),
				})
			}
		case sdrf.IsNotAvailable(cell):
			if !field.AllowNotAvailable {
				issues = append(issues, sdrf.Issue{
					Code:     sdrf.CodeNotAvailableForbidden,
					Severity: sdrf.SeverityError,
					Column:   field.SDRFName,
					Row:      row,
					Message:  fmt.Sprintf("%q is not permitted in this column", sdrf.NotAvailable),
				})
			}
		case cell == "":
			if field.Required {
				issues = append(issues, sdrf.Issue{
					Code:       sdrf.CodeEmptyCell,
					Severity:   sdrf.SeverityError,
					Column:     field.SDRFName,
					Row:        row,
					Message:    "required cell is empty",
					Suggestion: fmt.Sprintf("fill in a value or use %q if permitted", sdrf.NotAvailable),
				})
			}
		}
	}
	return issues
}
