// Package load reads shape models from YAML files into plain descriptors.
// Descriptors carry no resolved type information; the compiler/gen package
// turns them into a linked shape graph.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model is the top-level content of a model file.
type Model struct {
	// Package is the Go package name for generated code.
	Package string `yaml:"package"`
	// Shapes holds every named shape declared by the model.
	Shapes []*Shape `yaml:"shapes"`
}

// Shape describes one named shape as declared in the model file.
type Shape struct {
	Name             string    `yaml:"name"`
	Kind             string    `yaml:"kind"`
	Comment          string    `yaml:"comment,omitempty"`
	Sensitive        bool      `yaml:"sensitive,omitempty"`
	Deprecated       bool      `yaml:"deprecated,omitempty"`
	DeprecatedReason string    `yaml:"deprecated_reason,omitempty"`
	Members          []*Member `yaml:"members,omitempty"`
	// Values holds the symbols of an enum shape.
	Values []string `yaml:"values,omitempty"`
	// Elem is the element target of a list shape.
	Elem string `yaml:"elem,omitempty"`
	// Key and Value are the targets of a map shape.
	Key   string `yaml:"key,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// Member describes one member of a structure or union shape.
type Member struct {
	Name             string   `yaml:"name"`
	Target           string   `yaml:"target"`
	Comment          string   `yaml:"comment,omitempty"`
	Required         bool     `yaml:"required,omitempty"`
	Sensitive        bool     `yaml:"sensitive,omitempty"`
	Deprecated       bool     `yaml:"deprecated,omitempty"`
	DeprecatedReason string   `yaml:"deprecated_reason,omitempty"`
	RenamedFrom      string   `yaml:"renamed_from,omitempty"`
	// Default is nil when the member declares no default. An explicit
	// "default: null" yields a non-nil Literal holding a nil value.
	Default *Literal `yaml:"default,omitempty"`
}

// Literal is a decoded default literal. The pointer distinguishes "no
// default declared" from "default is null".
type Literal struct {
	Value any
}

// UnmarshalYAML decodes the literal into a plain Go value.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&l.Value)
}

// MarshalYAML encodes the literal back to its plain value.
func (l *Literal) MarshalYAML() (any, error) {
	return l.Value, nil
}

// FromBytes parses a model from YAML bytes.
func FromBytes(data []byte) (*Model, error) {
	m := &Model{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("load: parsing model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromFile parses a model from a YAML file.
func FromFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading model %s: %w", path, err)
	}
	m, err := FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load: model %s: %w", path, err)
	}
	return m, nil
}

func (m *Model) validate() error {
	seen := make(map[string]struct{}, len(m.Shapes))
	for _, s := range m.Shapes {
		if s.Name == "" {
			return fmt.Errorf("load: shape with empty name")
		}
		if s.Kind == "" {
			return fmt.Errorf("load: shape %q has no kind", s.Name)
		}
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("load: duplicate shape %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		names := make(map[string]struct{}, len(s.Members))
		for _, mem := range s.Members {
			if mem.Name == "" {
				return fmt.Errorf("load: shape %q has a member with empty name", s.Name)
			}
			if mem.Target == "" {
				return fmt.Errorf("load: member %q of shape %q has no target", mem.Name, s.Name)
			}
			if _, ok := names[mem.Name]; ok {
				return fmt.Errorf("load: duplicate member %q on shape %q", mem.Name, s.Name)
			}
			names[mem.Name] = struct{}{}
		}
	}
	return nil
}
