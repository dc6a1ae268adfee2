// Package gen holds the shape graph and drives code generation. Shapes are
// immutable once the graph is built; generators only read them.
package gen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mkwei/shapec/compiler/load"
	"github.com/mkwei/shapec/document"
)

// Kind is the closed set of shape kinds. Generator selection happens by a
// single exhaustive switch over this set.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindStructure
	KindUnion
	KindEnum
	KindList
	KindMap
	KindDocument
	KindBoolean
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindBigInteger
	KindBigDecimal
	KindString
	KindTimestamp
)

var kindNames = map[Kind]string{
	KindStructure:  "structure",
	KindUnion:      "union",
	KindEnum:       "enum",
	KindList:       "list",
	KindMap:        "map",
	KindDocument:   "document",
	KindBoolean:    "boolean",
	KindByte:       "byte",
	KindShort:      "short",
	KindInteger:    "integer",
	KindLong:       "long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindBigInteger: "bigInteger",
	KindBigDecimal: "bigDecimal",
	KindString:     "string",
	KindTimestamp:  "timestamp",
}

// String returns the model-file spelling of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind parses the model-file spelling of a kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("gen: unknown shape kind %q", s)
}

// IsPrimitive reports whether the kind is a simple scalar.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBoolean, KindByte, KindShort, KindInteger, KindLong,
		KindFloat, KindDouble, KindBigInteger, KindBigDecimal,
		KindString, KindTimestamp:
		return true
	}
	return false
}

// IsCollection reports whether the kind is a list or map.
func (k Kind) IsCollection() bool {
	return k == KindList || k == KindMap
}

// ShapeTraits are the declared modifiers of a shape.
type ShapeTraits struct {
	Sensitive        bool
	Deprecated       bool
	DeprecatedReason string
}

// MemberTraits are the declared modifiers of a member.
type MemberTraits struct {
	// Required makes presence in the built value mandatory.
	Required bool
	// HasDefault distinguishes "no default" from "default is null":
	// Default may be nil with HasDefault true.
	HasDefault bool
	// Default is the decoded default literal.
	Default          any
	Sensitive        bool
	Deprecated       bool
	DeprecatedReason string
	// RenamedFrom records a prior member name, for documentation only.
	RenamedFrom string
}

// Shape is one node of the shape graph.
type Shape struct {
	// Name is the schema name of the shape. Primitive shapes carry their
	// kind spelling as name.
	Name    string
	Kind    Kind
	Comment string
	Traits  ShapeTraits
	// Members holds structure/union members in declaration order.
	// Generators must never rely on this order; see Resolver.SortedMembers.
	Members []*Member
	// Values holds the symbols of an enum shape.
	Values []string
	// Elem is the element target of a list shape.
	Elem *Shape
	// Key and Value are the targets of a map shape.
	Key   *Shape
	Value *Shape
}

// Member is a named, trait-carrying edge from a structure or union shape to
// its target shape. A member belongs to exactly one shape.
type Member struct {
	Name    string
	Comment string
	Owner   *Shape
	Target  *Shape
	Traits  MemberTraits
}

// Graph is the resolved, immutable shape graph of one model.
type Graph struct {
	// Package is the Go package name for generated code.
	Package string
	// Shapes holds the named, user-declared shapes in declaration order.
	Shapes []*Shape

	shapes map[string]*Shape
}

// prelude holds the implicitly declared primitive shapes every model can
// reference by kind name.
func prelude() map[string]*Shape {
	shapes := make(map[string]*Shape)
	for k, name := range kindNames {
		if k.IsPrimitive() || k == KindDocument {
			shapes[name] = &Shape{Name: name, Kind: k}
		}
	}
	return shapes
}

// NewGraph resolves a loaded model into a shape graph. Member targets may
// reference declared shapes by name or primitive shapes by kind spelling.
func NewGraph(m *load.Model) (*Graph, error) {
	g := &Graph{Package: m.Package, shapes: prelude()}
	// First pass: declare all named shapes so members can reference them
	// regardless of declaration order.
	lowered := make(map[string]string, len(m.Shapes))
	for _, ds := range m.Shapes {
		kind, err := ParseKind(ds.Kind)
		if err != nil {
			return nil, NewSchemaError(ds.Name, "", "invalid kind", err)
		}
		if _, ok := g.shapes[ds.Name]; ok {
			return nil, NewSchemaError(ds.Name, "", "shape name collides with a builtin or duplicate shape", nil)
		}
		// Generated filenames are lowercased shape names, so names differing
		// only in case would race on the same output file.
		if prev, ok := lowered[strings.ToLower(ds.Name)]; ok {
			return nil, NewSchemaError(ds.Name, "", fmt.Sprintf("shape name collides with %q in generated filenames", prev), nil)
		}
		lowered[strings.ToLower(ds.Name)] = ds.Name
		s := &Shape{
			Name:    ds.Name,
			Kind:    kind,
			Comment: ds.Comment,
			Traits: ShapeTraits{
				Sensitive:        ds.Sensitive,
				Deprecated:       ds.Deprecated,
				DeprecatedReason: ds.DeprecatedReason,
			},
			Values: ds.Values,
		}
		g.shapes[ds.Name] = s
		g.Shapes = append(g.Shapes, s)
	}
	// Second pass: resolve member and collection targets.
	for i, ds := range m.Shapes {
		s := g.Shapes[i]
		switch s.Kind {
		case KindStructure, KindUnion:
			if len(ds.Members) == 0 {
				return nil, NewSchemaError(s.Name, "", "structure or union declares no members", nil)
			}
			for _, dm := range ds.Members {
				mem, err := g.resolveMember(s, dm)
				if err != nil {
					return nil, err
				}
				s.Members = append(s.Members, mem)
			}
		case KindEnum:
			if len(s.Values) == 0 {
				return nil, NewSchemaError(s.Name, "", "enum declares no values", nil)
			}
		case KindList:
			elem, ok := g.shapes[ds.Elem]
			if !ok {
				return nil, NewSchemaError(s.Name, "", fmt.Sprintf("unresolved list element %q", ds.Elem), nil)
			}
			s.Elem = elem
		case KindMap:
			key, ok := g.shapes[ds.Key]
			if !ok {
				return nil, NewSchemaError(s.Name, "", fmt.Sprintf("unresolved map key %q", ds.Key), nil)
			}
			if key.Kind != KindString {
				return nil, NewSchemaError(s.Name, "", "map keys must be strings", nil)
			}
			val, ok := g.shapes[ds.Value]
			if !ok {
				return nil, NewSchemaError(s.Name, "", fmt.Sprintf("unresolved map value %q", ds.Value), nil)
			}
			s.Key, s.Value = key, val
		default:
			return nil, NewSchemaError(s.Name, "", fmt.Sprintf("kind %s cannot be declared in a model", s.Kind), nil)
		}
	}
	return g, nil
}

func (g *Graph) resolveMember(owner *Shape, dm *load.Member) (*Member, error) {
	target, ok := g.shapes[dm.Target]
	if !ok {
		return nil, NewSchemaError(owner.Name, dm.Name, fmt.Sprintf("unresolved target %q", dm.Target), nil)
	}
	traits := MemberTraits{
		Required:         dm.Required,
		Sensitive:        dm.Sensitive,
		Deprecated:       dm.Deprecated,
		DeprecatedReason: dm.DeprecatedReason,
		RenamedFrom:      dm.RenamedFrom,
	}
	if dm.Default != nil {
		if err := validateDefault(owner.Name, dm.Name, target, dm.Default.Value); err != nil {
			return nil, err
		}
		traits.HasDefault = true
		traits.Default = dm.Default.Value
	}
	if owner.Kind == KindUnion {
		if traits.Required || traits.HasDefault {
			return nil, NewSchemaError(owner.Name, dm.Name, "union members cannot be required or carry defaults", nil)
		}
	}
	return &Member{
		Name:    dm.Name,
		Comment: dm.Comment,
		Owner:   owner,
		Target:  target,
		Traits:  traits,
	}, nil
}

// validateDefault type-checks a default literal against its target shape at
// graph-build time, so generation never has to abort mid-shape. An explicit
// null literal is only meaningful for document targets, where it
// materializes to the null document rather than absence.
func validateDefault(owner, member string, target *Shape, v any) error {
	fail := func(msg string) error {
		return NewSchemaError(owner, member, msg, nil)
	}
	if v == nil && target.Kind != KindDocument {
		return fail(fmt.Sprintf("null default is not valid for %s targets", target.Kind))
	}
	switch target.Kind {
	case KindBoolean:
		if _, ok := v.(bool); !ok {
			return fail(fmt.Sprintf("default %v is not a boolean", v))
		}
	case KindByte, KindShort, KindInteger, KindLong, KindBigInteger:
		var n int64
		switch v := v.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		case uint64:
			if v > math.MaxInt64 {
				return fail(fmt.Sprintf("default %d overflows %s", v, target.Kind))
			}
			n = int64(v)
		default:
			return fail(fmt.Sprintf("default %v is not an integer", v))
		}
		// Reject out-of-range literals here; an overflowing typed constant
		// would not compile in the generated file.
		if min, max, bounded := intBounds(target.Kind); bounded && (n < min || n > max) {
			return fail(fmt.Sprintf("default %d overflows %s", n, target.Kind))
		}
	case KindFloat, KindDouble, KindBigDecimal:
		switch x := v.(type) {
		case int, int64, uint64:
		case float64:
			if target.Kind == KindFloat && (x > math.MaxFloat32 || x < -math.MaxFloat32) {
				return fail(fmt.Sprintf("default %v overflows float", x))
			}
		default:
			return fail(fmt.Sprintf("default %v is not numeric", v))
		}
	case KindString:
		if _, ok := v.(string); !ok {
			return fail(fmt.Sprintf("default %v is not a string", v))
		}
	case KindTimestamp:
		s, ok := v.(string)
		if !ok {
			return fail(fmt.Sprintf("default %v is not a timestamp string", v))
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return NewSchemaError(owner, member, fmt.Sprintf("default %q is not RFC3339", s), err)
		}
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return fail(fmt.Sprintf("default %v is not an enum value", v))
		}
		found := false
		for _, val := range target.Values {
			if val == s {
				found = true
				break
			}
		}
		if !found {
			return fail(fmt.Sprintf("default %q is not a value of enum %s", s, target.Name))
		}
	case KindDocument:
		if _, err := document.FromLiteral(v); err != nil {
			return NewSchemaError(owner, member, "invalid document default", err)
		}
	default:
		return fail(fmt.Sprintf("members targeting %s cannot declare defaults", target.Kind))
	}
	return nil
}

// intBounds returns the representable range of a bounded integer kind.
func intBounds(k Kind) (int64, int64, bool) {
	switch k {
	case KindByte:
		return math.MinInt8, math.MaxInt8, true
	case KindShort:
		return math.MinInt16, math.MaxInt16, true
	case KindInteger:
		return math.MinInt32, math.MaxInt32, true
	}
	return 0, 0, false
}

// Shape returns a shape by name, including primitive prelude shapes.
func (g *Graph) Shape(name string) (*Shape, bool) {
	s, ok := g.shapes[name]
	return s, ok
}
