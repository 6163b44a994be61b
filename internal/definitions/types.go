// Package definitions reads, writes and builds YAML template definitions.
package definitions

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// SchemaVersion is the current definition schema version
const SchemaVersion = 1

// Definition describes a template stored on disk
type Definition struct {
	SchemaVersion int                 `yaml:"schema_version"`
	Title         string              `yaml:"title,omitempty"`
	Description   string              `yaml:"description,omitempty"`
	Source        string              `yaml:"source"`            // Required
	Pattern       string              `yaml:"pattern,omitempty"` // Custom placeholder regex
	Data          map[string]ValueDef `yaml:"data,omitempty"`    // Bound values
	Match         map[string]string   `yaml:"match,omitempty"`   // Per-placeholder constraints
}

// NestedDef is a template used as the value of a placeholder
type NestedDef struct {
	Template string              `yaml:"template"`
	Pattern  string              `yaml:"pattern,omitempty"`
	Data     map[string]ValueDef `yaml:"data,omitempty"`
	Match    map[string]string   `yaml:"match,omitempty"`
}

// ValueDef is a placeholder value: either a scalar literal or a nested template
type ValueDef struct {
	Literal string
	Nested  *NestedDef
}

// MarshalYAML implements custom YAML marshaling for ValueDef
func (v ValueDef) MarshalYAML() (interface{}, error) {
	if v.Nested != nil {
		return v.Nested, nil
	}
	return v.Literal, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for ValueDef
func (v *ValueDef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*v = ValueDef{Literal: s}
	case yaml.MappingNode:
		var nested NestedDef
		if err := value.Decode(&nested); err != nil {
			return err
		}
		*v = ValueDef{Nested: &nested}
	default:
		return fmt.Errorf("line %d: value must be a scalar or a nested template", value.Line)
	}
	return nil
}

// Validate validates the definition structure and content
func (d *Definition) Validate() error {
	if d.SchemaVersion > SchemaVersion {
		return fmt.Errorf("unsupported schema_version %d", d.SchemaVersion)
	}

	// Source is required
	if d.Source == "" {
		return errors.New("definition source is required")
	}

	return validateParts(d.Pattern, d.Data, d.Match)
}

// Validate validates a nested template
func (n *NestedDef) Validate() error {
	if n.Template == "" {
		return errors.New("nested template text is required")
	}
	return validateParts(n.Pattern, n.Data, n.Match)
}

func validateParts(pattern string, data map[string]ValueDef, match map[string]string) error {
	if pattern != "" {
		if _, err := placeholders.CompilePattern(pattern); err != nil {
			return err
		}
	}

	for name, fragment := range match {
		if err := placeholders.CheckConstraint(name, fragment); err != nil {
			return err
		}
	}

	for name, v := range data {
		if v.Nested == nil {
			continue
		}
		if err := v.Nested.Validate(); err != nil {
			return fmt.Errorf("data %s: %w", name, err)
		}
	}

	return nil
}

// UnmarshalDefinition unmarshals a definition from YAML bytes
func UnmarshalDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &tplerrors.DefinitionError{Op: "unmarshal", Err: err}
	}

	// Validate the definition
	if err := def.Validate(); err != nil {
		return nil, &tplerrors.DefinitionError{
			Op:  "validation",
			Err: fmt.Errorf("%w: %w", tplerrors.ErrInvalid, err),
		}
	}

	return &def, nil
}

// MarshalDefinition marshals a definition to YAML bytes
func MarshalDefinition(def *Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, &tplerrors.DefinitionError{Op: "marshal", Err: err}
	}
	return data, nil
}
