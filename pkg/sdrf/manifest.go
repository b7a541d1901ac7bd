package sdrf

import (
	"encoding/json"
	"sort"
)

// Manifest is the immutable result of one validation run: the complete,
// deterministically ordered set of issues plus summary counts. Build one
// with NewManifest; the engine never mutates a manifest after returning it.
type Manifest struct {
	issues   []Issue
	errors   int
	warnings int
}

// NewManifest copies and canonically orders the given issues: by column,
// then row, then code. The ordering makes manifests comparable and keeps
// proof digests independent of internal processing order.
func NewManifest(issues []Issue) *Manifest {
	ordered := make([]Issue, len(issues))
	copy(ordered, issues)
	sort.SliceStable(ordered, func(a, b int) bool {
		ia, ib := ordered[a], ordered[b]
		if ia.Column != ib.Column {
			return ia.Column < ib.Column
		}
		if ia.Row != ib.Row {
			return ia.Row < ib.Row
		}
		return ia.Code < ib.Code
	})

	m := &Manifest{issues: ordered}
	for _, issue := range ordered {
		switch issue.Severity {
		case SeverityWarning:
			m.warnings++
		default:
			m.errors++
		}
	}
	return m
}

// Issues returns the ordered issues. Callers must not modify the slice.
func (m *Manifest) Issues() []Issue { return m.issues }

// Len returns the total number of issues.
func (m *Manifest) Len() int { return len(m.issues) }

// ErrorCount returns the number of error-severity issues.
func (m *Manifest) ErrorCount() int { return m.errors }

// WarningCount returns the number of warning-severity issues.
func (m *Manifest) WarningCount() int { return m.warnings }

// HasErrors reports whether any issue has error severity.
func (m *Manifest) HasErrors() bool { return m.errors > 0 }

// ByCode returns the issues carrying any of the given codes.
func (m *Manifest) ByCode(codes ...Code) []Issue {
	want := make(map[Code]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []Issue
	for _, issue := range m.issues {
		if want[issue.Code] {
			out = append(out, issue)
		}
	}
	return out
}

// ByColumn returns the issues reported against the given column.
func (m *Manifest) ByColumn(column string) []Issue {
	var out []Issue
	for _, issue := range m.issues {
		if issue.Column == column {
			out = append(out, issue)
		}
	}
	return out
}

// ByRow returns the issues reported at the given 0-based row.
func (m *Manifest) ByRow(row int) []Issue {
	var out []Issue
	for _, issue := range m.issues {
		if issue.Row == row {
			out = append(out, issue)
		}
	}
	return out
}

// BySeverity returns the issues with the given severity.
func (m *Manifest) BySeverity(severity Severity) []Issue {
	var out []Issue
	for _, issue := range m.issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// manifestJSON is the serialized shape consumed by reporting collaborators.
type manifestJSON struct {
	Issues   []Issue `json:"issues"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
}

// MarshalJSON renders the manifest with its summary counts.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	issues := m.issues
	if issues == nil {
		issues = []Issue{}
	}
	return json.Marshal(manifestJSON{
		Issues:   issues,
		Errors:   m.errors,
		Warnings: m.warnings,
	})
}
