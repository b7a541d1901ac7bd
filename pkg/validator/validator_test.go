package validator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigbio/sdrf-go/pkg/ontology"
	"github.com/bigbio/sdrf-go/pkg/schema"
	"github.com/bigbio/sdrf-go/pkg/sdrf"
)

func mustValidate(t *testing.T, spec schema.ValidatorSpec, col Column) []sdrf.Issue {
	t.Helper()
	v, err := NewRegistry().New(spec, Deps{})
	require.NoError(t, err)
	issues, err := v.Validate(context.Background(), col)
	require.NoError(t, err)
	return issues
}

func TestRegistry(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		_, err := NewRegistry().New(schema.ValidatorSpec{Type: "telepathy"}, Deps{})
		assert.ErrorIs(t, err, ErrUnknownValidatorType)
	})

	t.Run("all built-in types are registered", func(t *testing.T) {
		types := NewRegistry().Types()
		for _, want := range []string{"whitespace", "uniqueness", "ontology", "pattern", "enum", "cardinality", "min_columns"} {
			assert.Contains(t, types, want)
		}
	})
}

func TestWhitespace(t *testing.T) {
	spec := schema.ValidatorSpec{Type: "whitespace"}
	col := Column{Name: "source name", Cells: []string{"ok", " leading", "trailing ", "", "not applicable "}}

	issues := mustValidate(t, spec, col)
	require.Len(t, issues, 3, "sentinels with padding are still findings")

	assert.Equal(t, sdrf.CodeWhitespaceViolation, issues[0].Code)
	assert.Equal(t, 1, issues[0].Row)
	assert.Equal(t, 2, issues[1].Row)
	assert.Equal(t, 4, issues[2].Row)
	assert.Equal(t, `replace with "leading"`, issues[0].Suggestion)
}

func TestUniqueness(t *testing.T) {
	spec := schema.ValidatorSpec{Type: "uniqueness"}

	t.Run("one issue per duplicated value", func(t *testing.T) {
		col := Column{Name: "source name", Cells: []string{"a", "b", "a", "a", "b", "c"}}
		issues := mustValidate(t, spec, col)
		require.Len(t, issues, 2)

		assert.Equal(t, sdrf.CodeDuplicateValue, issues[0].Code)
		assert.Equal(t, 0, issues[0].Row, "anchored at first occurrence")
		assert.Contains(t, issues[0].Message, "rows 0, 2, 3")
		assert.Equal(t, 1, issues[1].Row)
	})

	t.Run("empty cells and sentinels are exempt", func(t *testing.T) {
		col := Column{Name: "x", Cells: []string{"", "", "not available", "not available"}}
		assert.Empty(t, mustValidate(t, spec, col))
	})

	t.Run("case-insensitive option", func(t *testing.T) {
		insensitive := schema.ValidatorSpec{Type: "uniqueness", Params: map[string]any{"caseSensitive": false}}
		col := Column{Name: "x", Cells: []string{"Sample", "sample"}}
		assert.Len(t, mustValidate(t, insensitive, col), 1)
		assert.Empty(t, mustValidate(t, spec, col))
	})
}

func TestPattern(t *testing.T) {
	t.Run("full match required", func(t *testing.T) {
		spec := schema.ValidatorSpec{Type: "pattern", Params: map[string]any{"pattern": `\d+`}}
		col := Column{Name: "comment[fraction identifier]", Cells: []string{"1", "12", "1a", "a1"}}
		issues := mustValidate(t, spec, col)
		require.Len(t, issues, 2)
		assert.Equal(t, sdrf.CodePatternMismatch, issues[0].Code)
		assert.Equal(t, 2, issues[0].Row)
	})

	t.Run("sentinels and empties skipped", func(t *testing.T) {
		spec := schema.ValidatorSpec{Type: "pattern", Params: map[string]any{"pattern": `\d+`}}
		col := Column{Name: "x", Cells: []string{"", "not applicable", "Not Available"}}
		assert.Empty(t, mustValidate(t, spec, col))
	})

	t.Run("case-insensitive option", func(t *testing.T) {
		spec := schema.ValidatorSpec{Type: "pattern", Params: map[string]any{"pattern": `\d+ ppm`, "caseSensitive": false}}
		col := Column{Name: "x", Cells: []string{"10 PPM"}}
		assert.Empty(t, mustValidate(t, spec, col))
	})

	t.Run("invalid pattern fails construction", func(t *testing.T) {
		_, err := NewRegistry().New(schema.ValidatorSpec{Type: "pattern", Params: map[string]any{"pattern": "("}}, Deps{})
		assert.Error(t, err)
	})

	t.Run("missing pattern param", func(t *testing.T) {
		_, err := NewRegistry().New(schema.ValidatorSpec{Type: "pattern"}, Deps{})
		assert.Error(t, err)
	})
}

func TestEnum(t *testing.T) {
	spec := schema.ValidatorSpec{Type: "enum", Params: map[string]any{"values": []any{"male", "female", "unknown"}}}

	t.Run("rejects values outside the set", func(t *testing.T) {
		col := Column{Name: "characteristics[sex]", Cells: []string{"male", "f", "unknown"}}
		issues := mustValidate(t, spec, col)
		require.Len(t, issues, 1)
		assert.Equal(t, sdrf.CodeEnumViolation, issues[0].Code)
		assert.Equal(t, 1, issues[0].Row)
		assert.Contains(t, issues[0].Suggestion, "male, female, unknown")
	})

	t.Run("case sensitivity is configurable", func(t *testing.T) {
		col := Column{Name: "x", Cells: []string{"Male"}}
		assert.Len(t, mustValidate(t, spec, col), 1)

		insensitive := schema.ValidatorSpec{Type: "enum", Params: map[string]any{
			"values": []any{"male"}, "caseSensitive": false,
		}}
		assert.Empty(t, mustValidate(t, insensitive, col))
	})

	t.Run("empty values param is rejected", func(t *testing.T) {
		_, err := NewRegistry().New(schema.ValidatorSpec{Type: "enum", Params: map[string]any{"values": []any{}}}, Deps{})
		assert.Error(t, err)
	})
}

func TestCardinality(t *testing.T) {
	t.Run("max bound", func(t *testing.T) {
		spec := schema.ValidatorSpec{Type: "cardinality", Params: map[string]any{"max": 1}}
		col := Column{Name: "x", Cells: []string{"a", "b"}}
		issues := mustValidate(t, spec, col)
		require.Len(t, issues, 1)
		assert.Equal(t, sdrf.CodeCardinalityViolation, issues[0].Code)
		assert.Equal(t, sdrf.NoRow, issues[0].Row)

		assert.Empty(t, mustValidate(t, spec, Column{Name: "x", Cells: []string{"a", "a"}}))
	})

	t.Run("min bound", func(t *testing.T) {
		spec := schema.ValidatorSpec{Type: "cardinality", Params: map[string]any{"min": 2}}
		col := Column{Name: "x", Cells: []string{"a", "a"}}
		assert.Len(t, mustValidate(t, spec, col), 1)
	})

	t.Run("bounds are required and ordered", func(t *testing.T) {
		registry := NewRegistry()
		_, err := registry.New(schema.ValidatorSpec{Type: "cardinality"}, Deps{})
		assert.Error(t, err)
		_, err = registry.New(schema.ValidatorSpec{Type: "cardinality", Params: map[string]any{"min": 5, "max": 2}}, Deps{})
		assert.Error(t, err)
	})
}

func TestMinColumns(t *testing.T) {
	spec := schema.ValidatorSpec{Type: "min_columns", Params: map[string]any{"min": 7}}

	issues := mustValidate(t, spec, Column{Name: "x", Width: 5})
	require.Len(t, issues, 1)
	assert.Equal(t, sdrf.SeverityWarning, issues[0].Severity)
	assert.Equal(t, sdrf.NoRow, issues[0].Row)

	assert.Empty(t, mustValidate(t, spec, Column{Name: "x", Width: 7}))
}

func TestOntologyValidator(t *testing.T) {
	index := "CL:0000182\thepatocyte\n"
	sum := sha256.Sum256([]byte(index))
	registry := ontology.Registry{
		"cl": {Acronym: "cl", Artifact: "cl.tsv", SHA256: hex.EncodeToString(sum[:])},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(index))
	}))
	t.Cleanup(server.Close)

	cache, err := ontology.NewCache(ontology.Config{
		Root:       t.TempDir(),
		BaseURL:    server.URL,
		Registry:   registry,
		MaxRetries: 1,
	})
	require.NoError(t, err)
	deps := Deps{Resolver: ontology.NewResolver(cache)}

	spec := schema.ValidatorSpec{Type: "ontology", Params: map[string]any{"ontologies": []any{"cl"}}}
	v, err := NewRegistry().New(spec, deps)
	require.NoError(t, err)

	t.Run("unknown terms are findings", func(t *testing.T) {
		col := Column{Name: "characteristics[cell type]", Cells: []string{"hepatocyte", "astrocyte", ""}}
		issues, err := v.Validate(context.Background(), col)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, sdrf.CodeOntologyTermNotFound, issues[0].Code)
		assert.Equal(t, 1, issues[0].Row)
	})

	t.Run("unavailable ontology degrades to one column warning", func(t *testing.T) {
		offline, err := ontology.NewCache(ontology.Config{
			Root:      t.TempDir(),
			Registry:  registry,
			CacheOnly: true,
		})
		require.NoError(t, err)
		vOffline, err := NewRegistry().New(spec, Deps{Resolver: ontology.NewResolver(offline)})
		require.NoError(t, err)

		col := Column{Name: "characteristics[cell type]", Cells: []string{"hepatocyte", "astrocyte"}}
		issues, err := vOffline.Validate(context.Background(), col)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, sdrf.CodeOntologyUnavailable, issues[0].Code)
		assert.Equal(t, sdrf.SeverityWarning, issues[0].Severity)
		assert.Equal(t, sdrf.NoRow, issues[0].Row)
	})

	t.Run("later unavailable fallback keeps resolved cells clean", func(t *testing.T) {
		// First acronym has a cached index; the fallback acronym does not.
		// Cells that resolve against the first acronym never touch the
		// fallback; the first cell that misses degrades the rest of the
		// column to a single warning, keeping any findings already made.
		// ghost's pinned checksum never matches what the server returns, so
		// its index can never be produced.
		mixedRegistry := ontology.Registry{
			"cl":    registry["cl"],
			"ghost": {Acronym: "ghost", Artifact: "ghost.tsv", SHA256: strings.Repeat("0", 64)},
		}
		mixed, err := ontology.NewCache(ontology.Config{
			Root:       t.TempDir(),
			BaseURL:    server.URL,
			Registry:   mixedRegistry,
			MaxRetries: 1,
		})
		require.NoError(t, err)
		vMixed, err := NewRegistry().New(schema.ValidatorSpec{
			Type:   "ontology",
			Params: map[string]any{"ontologies": []any{"cl", "ghost"}},
		}, Deps{Resolver: ontology.NewResolver(mixed)})
		require.NoError(t, err)

		col := Column{Name: "characteristics[cell type]", Cells: []string{"hepatocyte", "astrocyte", "microglia"}}
		issues, err := vMixed.Validate(context.Background(), col)
		require.NoError(t, err)
		require.Len(t, issues, 1, "one warning for the column, not one per unresolved cell")
		assert.Equal(t, sdrf.CodeOntologyUnavailable, issues[0].Code)
		assert.Equal(t, sdrf.SeverityWarning, issues[0].Severity)
	})

	t.Run("resolver is required", func(t *testing.T) {
		_, err := NewRegistry().New(spec, Deps{})
		assert.Error(t, err)
	})
}
