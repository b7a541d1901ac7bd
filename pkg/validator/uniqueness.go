package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

// uniqueness requires every non-empty, non-sentinel cell in the column to
// be distinct. Each duplicated value yields exactly one issue listing all
// rows it occurs on, anchored at its first occurrence.
type uniqueness struct {
	caseSensitive bool
}

func newUniqueness(spec schema.ValidatorSpec, deps Deps) (Validator, error) {
	caseSensitive, err := boolParam(spec, "caseSensitive", true)
	if err != nil {
		return nil, err
	}
	return uniqueness{caseSensitive: caseSensitive}, nil
}

func (u uniqueness) Validate(ctx context.Context, col Column) ([]sdrf.Issue, error) {
	seen := make(map[string][]int)
	order := make([]string, 0, len(col.Cells))
	for row, cell := range col.Cells {
		if skipCell(cell) {
			continue
		}
		key := cell
		if !u.caseSensitive {
			key = strings.ToLower(key)
		}
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], row)
	}

	var issues []sdrf.Issue
	for _, key := range order {
		rows := seen[key]
		if len(rows) < 2 {
			continue
		}
		issues = append(issues, sdrf.Issue{
			Code:     sdrf.CodeDuplicateValue,
			Severity: sdrf.SeverityError,
			Column:   col.Name,
			Row:      rows[0],
			Message:  fmt.Sprintf("value %q appears %d times (rows %s)", col.Cells[rows[0]], len(rows), formatRows(rows)),
		})
	}
	return issues, nil
}

func formatRows(rows []int) string {
	sorted := append([]int(nil), rows...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, r := range sorted {
		parts[i] = fmt.Sprintf("%d", r)
	}
	return strings.Join(parts, ", ")
}
