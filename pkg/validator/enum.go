package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// enum restricts non-empty, non-sentinel cells to a fixed value set.
type enum struct {
	values        []string
	allowed       map[string]struct{}
	caseSensitive bool
}

func newEnum(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	values, ok, err := stringSliceParam(spec, "values")
	if err != nil {
		return nil, err
	}
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf("param %q is required and must be non-empty", "values")
	}
	caseSensitive, err := boolParam(spec, "caseSensitive", true)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !caseSensitive {
			v = strings.ToLower(v)
		}
		allowed[v] = struct{}{}
	}
	return enum{values: values, allowed: allowed, caseSensitive: caseSensitive}, nil
}

func (e enum) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	var issues []sdrf.Issue
	for row, cell := range col.Cells {
		if skipCell(cell) {
			continue
		}
		key := cell
		if !e.caseSensitive {
			key = strings.ToLower(key)
		}
		if _, ok := e.allowed[key]; ok {
			continue
		}
		issues = append(issues, sdrf.Issue{
			Code:       sdrf.CodeEnumViolation,
			Severity:   sdrf.SeverityError,
			Column:     col.Name,
			Row:        row,
			Message:    fmt.Sprintf("value %q is not one of the allowed values", cell),
			Suggestion: "allowed: " + strings.Join(e.values, ", "),
		})
	}
	return issues, nil
}
