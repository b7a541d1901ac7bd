package validator

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// pattern requires each non-empty, non-sentinel cell to match a regular
// expression in full.
type pattern struct {
	re     *regexp.Regexp
	source string
}

func newPattern(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	source, ok, err := stringParam(spec, "pattern")
	if err != nil {
		return nil, err
	}
	if !ok || source == "" {
		return nil, fmt.Errorf("param %q is required", "pattern")
	}
	caseSensitive, err := boolParam(spec, "caseSensitive", true)
	if err != nil {
		return nil, err
	}

	expr := source
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	// Anchor so partial matches never pass.
	re, err := regexp.Compile("\\A(?:" + expr + ")\\z")
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", source, err)
	}
	return pattern{re: re, source: source}, nil
}

func (p pattern) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	var issues []sdrf.Issue
	for row, cell := range col.Cells {
		if skipCell(cell) {
			continue
		}
		if p.re.MatchString(cell) {
			continue
		}
		issues = append(issues, sdrf.Issue{
			Code:     sdrf.CodePatternMismatch,
			Severity: sdrf.SeverityError,
			Column:   col.Name,
			Row:      row,
			Message:  fmt.Sprintf("value %q does not match pattern %s", cell, p.source),
		})
	}
	return issues, nil
}
