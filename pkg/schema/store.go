package schema

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/bigbio/sdrf-go/pkg/logger"
)

var storeLog = logger.New("schema:store")

//go:embed templates/*.yaml
var templateFS embed.FS

// Structural failures surfaced by Resolve. These indicate a broken schema
// configuration, not a defect in the input file, and are fatal to the
// caller.
var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrSchemaCycle    = errors.New("schema inheritance cycle")
)

// Store holds raw schema definitions and resolves them on demand.
// Resolution is deterministic and schemas are immutable for the process
// lifetime, so resolved schemas are cached by name.
type Store struct {
	mu       sync.Mutex
	raw      map[string]*Schema
	resolved map[string]*Schema
}

// NewStore loads the schema templates embedded in the binary.
func NewStore() (*Store, error) {
	s := &Store{
		raw:      make(map[string]*Schema),
		resolved: make(map[string]*Schema),
	}
	if err := s.loadFS(templateFS, "templates"); err != nil {
		return nil, err
	}
	storeLog.Printf("Loaded %d embedded schema templates", len(s.raw))
	return s, nil
}

// NewStoreFromDir loads schema definitions from a directory instead of the
// embedded templates. One YAML document per schema, resolvable by its
// declared name.
func NewStoreFromDir(dir string) (*Store, error) {
	s := &Store{
		raw:      make(map[string]*Schema),
		resolved: make(map[string]*Schema),
	}
	if err := s.loadFS(os.DirFS(dir), "."); err != nil {
		return nil, err
	}
	storeLog.Printf("Loaded %d schema definitions from %s", len(s.raw), dir)
	return s, nil
}

func (s *Store) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("failed to read schema directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := root + "/" + entry.Name()
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", entry.Name(), err)
		}
		schema, err := decodeSchema(content)
		if err != nil {
			return fmt.Errorf("invalid schema file %s: %w", entry.Name(), err)
		}
		s.raw[schema.Name] = schema
	}
	return nil
}

// decodeSchema meta-validates a schema document against the embedded JSON
// Schema, then decodes it into a Schema.
func decodeSchema(content []byte) (*Schema, error) {
	if err := validateSchemaDocument(content); err != nil {
		return nil, err
	}
	var schema Schema
	if err := yaml.Unmarshal(content, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}
	if schema.Name == "" {
		return nil, fmt.Errorf("schema document has no name")
	}
	return &schema, nil
}

// Add registers a schema definition programmatically, replacing any raw
// definition with the same name and dropping stale resolution results.
func (s *Store) Add(schema *Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[schema.Name] = schema.clone()
	s.resolved = make(map[string]*Schema)
}

// Names lists the available schema names, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.raw))
	for name := range s.raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named schema with its full extends chain merged,
// furthest ancestor first, so descendant field definitions override
// ancestor ones with the same field name. Fails with ErrSchemaNotFound or
// ErrSchemaCycle.
func (s *Store) Resolve(name string) (*Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(name)
}

func (s *Store) resolveLocked(name string) (*Schema, error) {
	if cached, ok := s.resolved[name]; ok {
		return cached, nil
	}

	chain, err := s.extendsChain(name)
	if err != nil {
		return nil, err
	}

	// Merge from the furthest ancestor down to the named schema.
	merged := chain[len(chain)-1].clone()
	for i := len(chain) - 2; i >= 0; i-- {
		merged = mergeSchemas(merged, chain[i])
	}
	merged.Name = name
	merged.Extends = ""

	s.resolved[name] = merged
	storeLog.Printf("Resolved schema %q: fields=%d minColumns=%d", name, len(merged.Fields), merged.MinColumns)
	return merged, nil
}

// extendsChain walks the extends graph from the named schema up to its
// furthest ancestor, with visited-set cycle detection. The named schema is
// first in the returned slice.
func (s *Store) extendsChain(name string) ([]*Schema, error) {
	var chain []*Schema
	visited := make(map[string]bool)
	for current := name; current != ""; {
		if visited[current] {
			return nil, fmt.Errorf("%w: detected at %q while resolving %q", ErrSchemaCycle, current, name)
		}
		visited[current] = true
		raw, ok := s.raw[current]
		if !ok {
			if current == name {
				return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
			}
			return nil, fmt.Errorf("%w: %q extends unknown schema %q", ErrSchemaNotFound, name, current)
		}
		chain = append(chain, raw)
		current = raw.Extends
	}
	return chain, nil
}

// mergeSchemas overlays a child definition onto its (already merged)
// parent. Child fields override parent fields by internal name identity,
// keeping the parent's position; new fields append in declaration order.
func mergeSchemas(parent, child *Schema) *Schema {
	result := parent.clone()
	result.Name = child.Name
	if child.Description != "" {
		result.Description = child.Description
	}
	if child.MinColumns > 0 {
		result.MinColumns = child.MinColumns
	}

	position := make(map[string]int, len(result.Fields))
	for i, f := range result.Fields {
		position[f.Name] = i
	}
	for _, f := range child.Fields {
		if i, ok := position[f.Name]; ok {
			result.Fields[i] = cloneField(f)
		} else {
			position[f.Name] = len(result.Fields)
			result.Fields = append(result.Fields, cloneField(f))
		}
	}
	return result
}

// Compose resolves each named schema and unions them into a single
// schema: required-field sets are unioned, and validators for fields
// present in more than one schema are concatenated in schema order.
func (s *Store) Compose(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no schema names given", ErrSchemaNotFound)
	}
	if len(names) == 1 {
		return s.Resolve(names[0])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combined := &Schema{
		Name:        strings.Join(names, "+"),
		Description: "Composition of: " + strings.Join(names, ", "),
	}
	position := make(map[string]int)
	for _, name := range names {
		resolved, err := s.resolveLocked(name)
		if err != nil {
			return nil, err
		}
		if resolved.MinColumns > combined.MinColumns {
			combined.MinColumns = resolved.MinColumns
		}
		for _, f := range resolved.Fields {
			if i, ok := position[f.Name]; ok {
				existing := &combined.Fields[i]
				existing.Required = existing.Required || f.Required
				existing.Validators = append(existing.Validators, cloneField(f).Validators...)
			} else {
				position[f.Name] = len(combined.Fields)
				combined.Fields = append(combined.Fields, cloneField(f))
			}
		}
	}
	return combined, nil
}

// SplitNames splits a comma-separated schema name list as accepted by the
// external interface.
func SplitNames(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
