// Package console formats user-facing terminal output: styled status
// messages and human-readable manifest rendering. Color is applied only
// when the stream is a terminal; fatih/color handles the detection.
package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow)
	successStyle = color.New(color.FgGreen)
	infoStyle    = color.New(color.FgCyan)
	dimStyle     = color.New(color.Faint)
)

// FormatErrorMessage styles an error line for stderr.
func FormatErrorMessage(message string) string {
	return errorStyle.Sprintf("✗ %s", message)
}

// FormatWarningMessage styles a warning line.
func FormatWarningMessage(message string) string {
	return warningStyle.Sprintf("⚠ %s", message)
}

// FormatSuccessMessage styles a success line.
func FormatSuccessMessage(message string) string {
	return successStyle.Sprintf("✓ %s", message)
}

// FormatInfoMessage styles an informational line.
func FormatInfoMessage(message string) string {
	return infoStyle.Sprintf("ℹ %s", message)
}

// RenderIssue formats one finding as a single line.
func RenderIssue(issue sdrf.Issue) string {
	var b strings.Builder
	switch issue.Severity {
	case sdrf.SeverityWarning:
		b.WriteString(warningStyle.Sprint("⚠ "))
	default:
		b.WriteString(errorStyle.Sprint("✗ "))
	}
	b.WriteString(dimStyle.Sprintf("[%s] ", issue.Code))
	if issue.Column != "" {
		if issue.Row == sdrf.NoRow {
			b.WriteString(fmt.Sprintf("column %q: ", issue.Column))
		} else {
			b.WriteString(fmt.Sprintf("column %q row %d: ", issue.Column, issue.Row))
		}
	}
	b.WriteString(issue.Message)
	if issue.Suggestion != "" {
		b.WriteString(dimStyle.Sprintf(" (%s)", issue.Suggestion))
	}
	return b.String()
}

// RenderManifest formats a full manifest for terminal display, issues
// first and a summary line last.
func RenderManifest(manifest *sdrf.Manifest) string {
	var b strings.Builder
	for _, issue := range manifest.Issues() {
		b.WriteString(RenderIssue(issue))
		b.WriteByte('\n')
	}
	if manifest.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(RenderSummary(manifest))
	b.WriteByte('\n')
	return b.String()
}

// RenderSummary formats the one-line verdict for a manifest.
func RenderSummary(manifest *sdrf.Manifest) string {
	switch {
	case manifest.HasErrors():
		return FormatErrorMessage(fmt.Sprintf("validation failed: %d error(s), %d warning(s)", manifest.ErrorCount(), manifest.WarningCount()))
	case manifest.WarningCount() > 0:
		return FormatWarningMessage(fmt.Sprintf("validation passed with %d warning(s)", manifest.WarningCount()))
	default:
		return FormatSuccessMessage("validation passed")
	}
}
