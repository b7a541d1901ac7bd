// Package schema loads declarative SDRF schema definitions and resolves
// their inheritance into flat, ready-to-use schemas.
package schema

// ValidatorSpec names a validator type from the closed registry vocabulary
// together with its type-specific parameters.
type ValidatorSpec struct {
	Type   string         `yaml:"type" json:"type"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Field binds an internal field id to an exact SDRF column header and the
// validators that run against that column. Validators run in declared
// order.
type Field struct {
	Name               string          `yaml:"name" json:"name"`
	SDRFName           string          `yaml:"sdrfName" json:"sdrfName"`
	Description        string          `yaml:"description,omitempty" json:"description,omitempty"`
	Required           bool            `yaml:"required" json:"required"`
	AllowNotApplicable bool            `yaml:"allowNotApplicable,omitempty" json:"allowNotApplicable,omitempty"`
	AllowNotAvailable  bool            `yaml:"allowNotAvailable,omitempty" json:"allowNotAvailable,omitempty"`
	Validators         []ValidatorSpec `yaml:"validators,omitempty" json:"validators,omitempty"`
}

// Schema is one schema definition. Before resolution Extends may name a
// parent schema; a resolved Schema has the full inherited field set merged
// in and Extends cleared. Resolved schemas are immutable.
type Schema struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Extends     string  `yaml:"extends,omitempty" json:"extends,omitempty"`
	MinColumns  int     `yaml:"minColumns,omitempty" json:"minColumns,omitempty"`
	Fields      []Field `yaml:"fields" json:"fields"`
}

// FieldByName returns the field with the given internal id.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields returns the fields marked required, in declaration order.
func (s *Schema) RequiredFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// clone deep-copies a schema so resolution never aliases raw definitions.
func (s *Schema) clone() *Schema {
	out := &Schema{
		Name:        s.Name,
		Description: s.Description,
		Extends:     s.Extends,
		MinColumns:  s.MinColumns,
		Fields:      make([]Field, len(s.Fields)),
	}
	for i, f := range s.Fields {
		out.Fields[i] = cloneField(f)
	}
	return out
}

func cloneField(f Field) Field {
	out := f
	out.Validators = make([]ValidatorSpec, len(f.Validators))
	for i, v := range f.Validators {
		params := make(map[string]any, len(v.Params))
		for k, val := range v.Params {
			params[k] = val
		}
		out.Validators[i] = ValidatorSpec{Type: v.Type, Params: params}
	}
	return out
}
