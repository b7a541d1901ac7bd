package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed metaschema.json
var metaSchemaJSON []byte

var metaSchema = mustCompileMetaSchema()

func mustCompileMetaSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(metaSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("embedded meta-schema is not valid JSON: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("sdrf-schema.json", doc); err != nil {
		panic(fmt.Sprintf("failed to register meta-schema: %v", err))
	}
	compiled, err := compiler.Compile("sdrf-schema.json")
	if err != nil {
		panic(fmt.Sprintf("embedded meta-schema does not compile: %v", err))
	}
	return compiled
}

// validateSchemaDocument checks a schema YAML document against the embedded
// meta-schema so structural mistakes (wrong types, unknown validator
// shapes, missing required keys) are reported before decoding.
func validateSchemaDocument(content []byte) error {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	// Round-trip through encoding/json so numeric and map types match what
	// the JSON Schema validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize schema document: %w", err)
	}
	normalized, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to normalize schema document: %w", err)
	}

	if err := metaSchema.Validate(normalized); err != nil {
		return fmt.Errorf("schema document failed validation: %w", err)
	}
	return nil
}
