// Package ontology manages local, integrity-verified ontology term indices
// and resolves candidate terms against them.
package ontology

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Term is one controlled-vocabulary entry: a canonical label and its
// accession (e.g. "hepatocyte" / "CL:0000182").
type Term struct {
	Label     string `json:"label"`
	Accession string `json:"accession"`
}

// Index is the immutable in-memory term index of one ontology, built once
// per process from cached index data. Lookups are by normalized label or
// by accession.
type Index struct {
	acronym     string
	byLabel     map[string]Term
	byAccession map[string]Term
}

// Acronym returns the ontology acronym this index was built for.
func (ix *Index) Acronym() string { return ix.acronym }

// Len returns the number of terms in the index.
func (ix *Index) Len() int { return len(ix.byLabel) }

// LookupLabel finds a term by its label. Matching is exact after case
// folding; no fuzzy matching is performed.
func (ix *Index) LookupLabel(label string) (Term, bool) {
	term, ok := ix.byLabel[normalizeLabel(label)]
	return term, ok
}

// LookupAccession finds a term by its accession, case-insensitively.
func (ix *Index) LookupAccession(accession string) (Term, bool) {
	term, ok := ix.byAccession[strings.ToUpper(strings.TrimSpace(accession))]
	return term, ok
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// ParseIndex reads an ontology index artifact: tab-separated lines of
// accession, label and (optionally) ontology acronym. Rows missing a label
// or accession are skipped, as in upstream index builds.
func ParseIndex(r io.Reader, acronym string) (*Index, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	ix := &Index{
		acronym:     acronym,
		byLabel:     make(map[string]Term),
		byAccession: make(map[string]Term),
	}

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s index at line %d: %w", acronym, line, err)
		}
		if len(record) < 2 {
			continue
		}
		accession := strings.TrimSpace(record[0])
		label := strings.TrimSpace(record[1])
		if accession == "" || label == "" {
			continue
		}
		// Skip a header row if present.
		if line == 1 && strings.EqualFold(accession, "accession") {
			continue
		}
		term := Term{Label: label, Accession: accession}
		ix.byLabel[normalizeLabel(label)] = term
		ix.byAccession[strings.ToUpper(accession)] = term
	}

	if ix.Len() == 0 {
		return nil, fmt.Errorf("index for %s contains no terms", acronym)
	}
	return ix, nil
}
