package validator

import (
	"context"
	"fmt"

	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// cardinality bounds the number of distinct non-empty, non-sentinel values
// a column may carry. Useful for columns expected to be constant (max: 1)
// or to vary (min: 2 catches a copy-pasted constant).
type cardinality struct {
	min    int
	hasMin bool
	max    int
	hasMax bool
}

func newCardinality(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	min, hasMin, err := intParam(spec, "min")
	if err != nil {
		return nil, err
	}
	max, hasMax, err := intParam(spec, "max")
	if err != nil {
		return nil, err
	}
	if !hasMin && !hasMax {
		return nil, fmt.Errorf("at least one of %q and %q is required", "min", "max")
	}
	if hasMin && hasMax && min > max {
		return nil, fmt.Errorf("min %d exceeds max %d", min, max)
	}
	return cardinality{min: min, hasMin: hasMin, max: max, hasMax: hasMax}, nil
}

func (c cardinality) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	distinct := make(map[string]struct{})
	for _, cell := range col.Cells {
		if skipCell(cell) {
			continue
		}
		distinct[cell] = struct{}{}
	}

	n := len(distinct)
	var issues []sdrf.Issue
	if c.hasMin && n < c.min {
		issues = append(issues, sdrf.Issue{
			Code:     sdrf.CodeCardinalityViolation,
			Severity: sdrf.SeverityError,
			Column:   col.Name,
			Row:      sdrf.NoRow,
			Message:  fmt.Sprintf("column has %d distinct values, expected at least %d", n, c.min),
		})
	}
	if c.hasMax && n > c.max {
		issues = append(issues, sdrf.Issue{
			Code:     sdrf.CodeCardinalityViolation,
			Severity: sdrf.SeverityError,
			Column:   col.Name,
			Row:      sdrf.NoRow,
			Message:  fmt.Sprintf("column has %d distinct values, expected at most %d", n, c.max),
		})
	}
	return issues, nil
}

// minColumns checks overall table width. It is columnar only in form; the
// width it checks is table-wide, so schemas attach it to a single field.
type minColumns struct {
	min int
}

func newMinColumns(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	min, ok, err := intParam(spec, "min")
	if err != nil {
		return nil, err
	}
	if !ok || min < 1 {
		return nil, fmt.Errorf("param %q is required and must be positive", "min")
	}
	return minColumns{min: min}, nil
}

func (m minColumns) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	if col.Width >= m.min {
		return nil, nil
	}
	return []sdrf.Issue{{
		Code:     sdrf.CodeCardinalityViolation,
		Severity: sdrf.SeverityWarning,
		Column:   "",
		Row:      sdrf.NoRow,
		Message:  fmt.Sprintf("file has %d columns, expected at least %d", col.Width, m.min),
	}}, nil
}
