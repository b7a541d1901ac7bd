// Package validator implements the closed set of column validators that
// schemas may reference, plus the registry that instantiates them.
package validator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bigbio/sdrf-go/pkg/ontology"
	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// ErrUnknownValidatorType indicates a schema referenced a validator type
// outside the registry vocabulary. This is a schema defect, not a data
// finding, so validation aborts rather than producing a manifest.
var ErrUnknownValidatorType = errors.New("unknown validator type")

// Column is the unit of validation: one schema field bound to the matching
// table column. Cells holds one value per data row, in row order. Width is
// the total column count of the table, for table-shape checks.
type Column struct {
	Field schema.Field
	Name  string
	Cells []string
	Width int
}

// Validator checks one column and reports findings. Implementations never
// stop at the first finding; every offending cell is reported.
type Validator interface {
	Validate(ctx context.Context, col Column) ([]sdrf.Issue, error)
}

// Factory builds a validator from its schema parameters.
type Factory func(spec schema.ValidatorSpec, deps Deps) (Validator, error)

// Deps carries shared services validators may need.
type Deps struct {
	Resolver *ontology.Resolver
}

// Registry maps validator type names to factories. The set is closed:
// schemas may only reference types registered here.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the full built-in validator set.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{
		"whitespace":  newWhitespace,
		"uniqueness":  newUniqueness,
		"ontology":    newOntology,
		"pattern":     newPattern,
		"enum":        newEnum,
		"cardinality": newCardinality,
		"min_columns": newMinColumns,
	}}
}

// New instantiates the validator named by spec.
func (r *Registry) New(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	factory, ok := r.factories[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValidatorType, spec.Type)
	}
	v, err := factory(spec, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build %q validator: %w", spec.Type, err)
	}
	return v, nil
}

// Types returns the registered type names, unordered.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}

// skipCell reports whether a cell is exempt from content validators.
// Empty cells and sentinels are screened by the engine; a forbidden
// sentinel is its own finding, never a pattern or ontology failure.
func skipCell(cell string) bool {
	return cell == "" || sdrf.IsSentinel(cell)
}
