package sdrf

import "fmt"

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a machine-readable identifier for a validation failure. The set
// is closed: downstream consumers key behavior off these values, so new
// codes are additive and existing ones never change meaning.
type Code string

const (
	CodeMissingRequiredColumn  Code = "MISSING_REQUIRED_COLUMN"
	CodeWhitespaceViolation    Code = "WHITESPACE_VIOLATION"
	CodeDuplicateValue         Code = "DUPLICATE_VALUE"
	CodeOntologyTermNotFound   Code = "ONTOLOGY_TERM_NOT_FOUND"
	CodeOntologyUnavailable    Code = "ONTOLOGY_UNAVAILABLE"
	CodePatternMismatch        Code = "PATTERN_MISMATCH"
	CodeEnumViolation          Code = "ENUM_VIOLATION"
	CodeCardinalityViolation   Code = "CARDINALITY_VIOLATION"
	CodeNotApplicableForbidden Code = "NOT_APPLICABLE_NOT_ALLOWED"
	CodeNotAvailableForbidden  Code = "NOT_AVAILABLE_NOT_ALLOWED"
	CodeEmptyCell              Code = "EMPTY_CELL"
)

// NoRow marks an issue that applies to the whole file or a whole column
// rather than a single row.
const NoRow = -1

// Issue is a single validation finding. Row is 0-based over data rows
// (the header row is not counted) and NoRow for file-level issues.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Column   string   `json:"column,omitempty"`
	Row      int      `json:"row"`
	Message  string   `json:"message"`
	// Suggestion optionally tells the user how to fix the finding.
	Suggestion string `json:"suggestion,omitempty"`
}

func (i Issue) String() string {
	if i.Row == NoRow {
		if i.Column == "" {
			return fmt.Sprintf("[%s] %s", i.Code, i.Message)
		}
		return fmt.Sprintf("[%s] column %q: %s", i.Code, i.Column, i.Message)
	}
	return fmt.Sprintf("[%s] column %q row %d: %s", i.Code, i.Column, i.Row, i.Message)
}
