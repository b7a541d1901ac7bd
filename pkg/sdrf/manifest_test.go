package sdrf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManifestOrdering(t *testing.T) {
	// Deliberately unordered input; the manifest must come out sorted by
	// column, then row, then code regardless.
	issues := []Issue{
		{Code: CodeEmptyCell, Severity: SeverityError, Column: "b", Row: 3},
		{Code: CodeWhitespaceViolation, Severity: SeverityError, Column: "a", Row: 5},
		{Code: CodeMissingRequiredColumn, Severity: SeverityError, Column: "a", Row: NoRow},
		{Code: CodeEmptyCell, Severity: SeverityError, Column: "b", Row: 1},
	}

	m := NewManifest(issues)
	got := m.Issues()
	require.Len(t, got, 4)

	assert.Equal(t, CodeMissingRequiredColumn, got[0].Code)
	assert.Equal(t, CodeWhitespaceViolation, got[1].Code)
	assert.Equal(t, 1, got[2].Row)
	assert.Equal(t, 3, got[3].Row)

	// Same issues in a different input order must yield the same output.
	m2 := NewManifest([]Issue{issues[3], issues[2], issues[0], issues[1]})
	assert.Equal(t, m.Issues(), m2.Issues())
}

func TestManifestCounts(t *testing.T) {
	m := NewManifest([]Issue{
		{Code: CodeEmptyCell, Severity: SeverityError, Column: "a", Row: 0},
		{Code: CodeCardinalityViolation, Severity: SeverityWarning, Row: NoRow},
	})

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.ErrorCount())
	assert.Equal(t, 1, m.WarningCount())
	assert.True(t, m.HasErrors())

	empty := NewManifest(nil)
	assert.False(t, empty.HasErrors())
	assert.Equal(t, 0, empty.Len())
}

func TestManifestFilters(t *testing.T) {
	m := NewManifest([]Issue{
		{Code: CodeEmptyCell, Severity: SeverityError, Column: "a", Row: 0},
		{Code: CodeEmptyCell, Severity: SeverityError, Column: "b", Row: 0},
		{Code: CodeDuplicateValue, Severity: SeverityError, Column: "a", Row: 2},
	})

	assert.Len(t, m.ByCode(CodeEmptyCell), 2)
	assert.Len(t, m.ByColumn("a"), 2)
	assert.Len(t, m.ByRow(0), 2)
	assert.Len(t, m.BySeverity(SeverityWarning), 0)
}

func TestManifestMarshalJSON(t *testing.T) {
	m := NewManifest([]Issue{
		{Code: CodeEmptyCell, Severity: SeverityError, Column: "a", Row: 0, Message: "required cell is empty"},
	})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded struct {
		Issues   []Issue `json:"issues"`
		Errors   int     `json:"errors"`
		Warnings int     `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Errors)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, CodeEmptyCell, decoded.Issues[0].Code)

	// An empty manifest serializes issues as [], not null.
	data, err = json.Marshal(NewManifest(nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issues":[]`)
}

func TestSentinels(t *testing.T) {
	assert.True(t, IsNotApplicable("not applicable"))
	assert.True(t, IsNotApplicable("Not Applicable"))
	assert.True(t, IsNotApplicable("  not applicable  "))
	assert.False(t, IsNotApplicable("not applicable at all"))

	assert.True(t, IsNotAvailable("NOT AVAILABLE"))
	assert.False(t, IsNotAvailable("unavailable"))

	assert.True(t, IsSentinel("not applicable"))
	assert.True(t, IsSentinel("not available"))
	assert.False(t, IsSentinel(""))
}
