package sdrf

import "strings"

// Sentinel cell values defined by the SDRF specification. A sentinel
// bypasses content validation for a field when the field permits it.
const (
	NotApplicable = "not applicable"
	NotAvailable  = "not available"
)

// IsNotApplicable reports whether a cell value is the "not applicable"
// sentinel. Comparison is exact after trimming and case folding.
func IsNotApplicable(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), NotApplicable)
}

// IsNotAvailable reports whether a cell value is the "not available"
// sentinel.
func IsNotAvailable(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), NotAvailable)
}

// IsSentinel reports whether a cell value is either sentinel.
func IsSentinel(value string) bool {
	return IsNotApplicable(value) || IsNotAvailable(value)
}
