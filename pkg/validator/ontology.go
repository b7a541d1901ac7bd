package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bigbio/sdrf-go/pkg/ontology"
	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// ontologyValidator requires each non-empty, non-sentinel cell to resolve
// to a term in one of the candidate ontologies. If an ontology index
// cannot be produced at all, the whole column degrades to a single
// availability warning instead of a per-cell error storm.
type ontologyValidator struct {
	ontologies []string
	resolver   *ontology.Resolver
}

func newOntology(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	ontologies, ok, err := stringSliceParam(spec, "ontologies")
	if err != nil {
		return nil, err
	}
	if !ok || len(ontologies) == 0 {
		return nil, fmt.Errorf("param %q is required and must be non-empty", "ontologies")
	}
	if deps.Resolver == nil {
		return nil, errors.New("ontology validator requires a resolver")
	}
	return ontologyValidator{ontologies: ontologies, resolver: deps.Resolver}, nil
}

func (o ontologyValidator) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	var issues []sdrf.Issue
	for row, cell := range col.Cells {
		if skipCell(cell) {
			continue
		}
		outcome, err := o.resolver.Resolve(ctx, cell, o.ontologies, col.Field.AllowNotApplicable, col.Field.AllowNotAvailable)
		if err != nil {
			if errors.Is(err, ontology.ErrOntologyUnavailable) || errors.Is(err, ontology.ErrUnknownOntology) {
				// Findings already collected for this column stay; the
				// remaining cells degrade to one column-level warning.
				return append(issues, sdrf.Issue{
					Code:     sdrf.CodeOntologyUnavailable,
					Severity: sdrf.SeverityWarning,
					Column:   col.Name,
					Row:      sdrf.NoRow,
					Message:  fmt.Sprintf("ontology check skipped: %v", err),
				}), nil
			}
			return nil, err
		}
		if outcome.Kind == ontology.NotFound {
			issues = append(issues, sdrf.Issue{
				Code:     sdrf.CodeOntologyTermNotFound,
				Severity: sdrf.SeverityError,
				Column:   col.Name,
				Row:      row,
				Message:  fmt.Sprintf("term %q not found in %s", cell, strings.Join(o.ontologies, ", ")),
			})
		}
	}
	return issues, nil
}
