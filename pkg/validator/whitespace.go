package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// whitespace flags leading or trailing whitespace in any cell. Unlike
// content validators it inspects sentinels too: a padded sentinel is
// still a formatting defect.
type whitespace struct{}

func newWhitespace(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	return whitespace{}, nil
}

func (whitespace) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	var issues []sdrf.Issue
	for row, cell := range col.Cells {
		if cell == "" {
			continue
		}
		trimmed := strings.TrimSpace(cell)
		if trimmed == cell {
			continue
		}
		issues = append(issues, sdrf.Issue{
			Code:       sdrf.CodeWhitespaceViolation,
			Severity:   sdrf.SeverityError,
			Column:     col.Name,
			Row:        row,
			Message:    fmt.Sprintf("value %q has leading or trailing whitespace", cell),
			Suggestion: fmt.Sprintf("replace with %q", trimmed),
		})
	}
	return issues, nil
}
