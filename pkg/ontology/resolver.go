package ontology

import (
	"context"
	"strings"

	"github.com/bigbio/sdrf-go/pkg/logger"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

var resolveLog = logger.New("ontology:resolver")

// OutcomeKind classifies the result of resolving one cell value.
type OutcomeKind int

const (
	// Found means the value matched a term in one of the candidate
	// ontologies.
	Found OutcomeKind = iota

	// NotFound means no candidate ontology contains the value.
	NotFound

	// Sentinel means the value was a permitted placeholder and resolution
	// was bypassed.
	Sentinel
)

// Outcome is the result of resolving one cell value.
type Outcome struct {
	Kind OutcomeKind

	// Term is populated when Kind is Found.
	Term Term

	// Ontology is the acronym that matched, when Kind is Found.
	Ontology string
}

// Resolver matches cell values against cached ontology indices.
type Resolver struct {
	cache *Cache
}

// NewResolver builds a resolver over cache.
func NewResolver(cache *Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve matches value against the given ontologies in order; the first
// ontology containing the term wins. Permitted sentinels short-circuit
// with a Sentinel outcome. Label matching is exact after case folding,
// never fuzzy. Structured values ("NT=hepatocyte;AC=CL:0000182") are
// resolved by their label part, falling back to the accession.
func (r *Resolver) Resolve(ctx context.Context, value string, ontologies []string, allowNotApplicable, allowNotAvailable bool) (Outcome, error) {
	if allowNotApplicable && sdrf.IsNotApplicable(value) {
		return Outcome{Kind: Sentinel}, nil
	}
	if allowNotAvailable && sdrf.IsNotAvailable(value) {
		return Outcome{Kind: Sentinel}, nil
	}

	label, accession := SplitTermValue(value)

	for _, acronym := range ontologies {
		ix, err := r.cache.Ensure(ctx, acronym)
		if err != nil {
			return Outcome{}, err
		}
		if term, ok := ix.LookupLabel(label); ok {
			resolveLog.Printf("%q matched %s in %s", label, term.Accession, acronym)
			return Outcome{Kind: Found, Term: term, Ontology: acronym}, nil
		}
		if accession != "" {
			if term, ok := ix.LookupAccession(accession); ok {
				resolveLog.Printf("%q matched by accession %s in %s", value, accession, acronym)
				return Outcome{Kind: Found, Term: term, Ontology: acronym}, nil
			}
		}
	}
	return Outcome{Kind: NotFound}, nil
}

// SplitTermValue extracts the label and accession from a cell value.
// Values may be plain labels or semicolon-separated key-value pairs
// ("NT=label;AC=accession;TA=9606"); unknown keys are ignored. A plain
// value is returned as the label with an empty accession.
func SplitTermValue(value string) (label, accession string) {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "=") {
		return value, ""
	}
	for _, part := range strings.Split(value, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		switch key {
		case "NT":
			label = val
		case "AC":
			accession = val
		}
	}
	if label == "" && accession == "" {
		// Looked structured but carried no recognized keys; treat the raw
		// value as a label.
		return value, ""
	}
	return label, accession
}
