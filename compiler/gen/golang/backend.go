// Package golang emits Go declarations for shapes: structure types with
// builders, tagged unions with accessors and redaction formatters, and
// string-backed enums.
package golang

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/mkwei/shapec/compiler/gen"
)

// Import paths of the runtime packages generated code depends on.
const (
	runtimePkg  = "github.com/mkwei/shapec"
	documentPkg = "github.com/mkwei/shapec/document"
)

// Backend implements gen.Backend for the Go target.
type Backend struct {
	graph    *gen.Graph
	resolver *gen.Resolver
	cfg      gen.Config
}

// New creates a Go backend over the given graph.
func New(graph *gen.Graph, resolver *gen.Resolver, cfg gen.Config) *Backend {
	return &Backend{graph: graph, resolver: resolver, cfg: cfg}
}

// Name returns the backend name.
func (b *Backend) Name() string { return "golang" }

// newFile creates a jennifer file with the standard header comment.
func (b *Backend) newFile() *jen.File {
	pkg := b.cfg.Package
	if pkg == "" {
		pkg = b.graph.Package
	}
	f := jen.NewFile(pkg)
	f.HeaderComment(b.cfg.HeaderComment())
	return f
}

// composedType returns the Go type of a shape as composed by another shape:
// structures and big numerics by reference, everything else by value.
func (b *Backend) composedType(s *gen.Shape) jen.Code {
	switch s.Kind {
	case gen.KindBoolean:
		return jen.Bool()
	case gen.KindByte:
		return jen.Int8()
	case gen.KindShort:
		return jen.Int16()
	case gen.KindInteger:
		return jen.Int32()
	case gen.KindLong:
		return jen.Int64()
	case gen.KindFloat:
		return jen.Float32()
	case gen.KindDouble:
		return jen.Float64()
	case gen.KindBigInteger:
		return jen.Op("*").Qual("math/big", "Int")
	case gen.KindBigDecimal:
		return jen.Op("*").Qual("math/big", "Float")
	case gen.KindString:
		return jen.String()
	case gen.KindTimestamp:
		return jen.Qual("time", "Time")
	case gen.KindDocument:
		return jen.Qual(documentPkg, "Document")
	case gen.KindList:
		return jen.Index().Add(b.composedType(s.Elem))
	case gen.KindMap:
		return jen.Map(jen.String()).Add(b.composedType(s.Value))
	case gen.KindStructure:
		return jen.Op("*").Id(b.resolver.Symbol(s).Name)
	default:
		return jen.Id(b.resolver.Symbol(s).Name)
	}
}

// isReference reports whether the composed form of a shape is already a
// pointer, so optional fields and builder slots need no extra indirection.
func isReference(s *gen.Shape) bool {
	switch s.Kind {
	case gen.KindStructure, gen.KindBigInteger, gen.KindBigDecimal:
		return true
	}
	return false
}

// isNilable reports whether the composed form has a natural nil sentinel.
func isNilable(s *gen.Shape) bool {
	return isReference(s) || s.Kind.IsCollection()
}

// fieldType returns the Go type of a structure field. Optional members
// without a default become pointers unless the composed form already has a
// nil sentinel; collections are always bare since unset ones build to empty.
func (b *Backend) fieldType(m *gen.Member) jen.Code {
	t := b.composedType(m.Target)
	if pointerField(m) {
		return jen.Op("*").Add(t)
	}
	return t
}

// pointerField reports whether a structure field carries an explicit
// pointer for optionality, rather than the composed form directly.
func pointerField(m *gen.Member) bool {
	return !m.Traits.Required && !m.Traits.HasDefault && !isNilable(m.Target)
}

// slotType returns the builder slot type of a member. Slots are optional
// cells: nil means the setter was never called.
func (b *Backend) slotType(m *gen.Member) jen.Code {
	t := b.composedType(m.Target)
	if isNilable(m.Target) {
		return t
	}
	return jen.Op("*").Add(t)
}

// lowerFirst converts an exported identifier to its unexported form.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// docLines assembles the documentation trail of a member or shape:
// forwarded comment, rename note and deprecation marker.
func docLines(comment, renamedFrom string, deprecated bool, reason string) []string {
	var lines []string
	if comment != "" {
		lines = append(lines, comment)
	}
	if renamedFrom != "" {
		lines = append(lines, fmt.Sprintf("Renamed from %q.", renamedFrom))
	}
	if deprecated {
		if reason == "" {
			reason = "no longer supported"
		}
		lines = append(lines, "Deprecated: "+reason)
	}
	return lines
}

// writeDoc emits doc-comment lines directly above the next declaration.
func writeDoc(f *jen.File, lines []string) {
	for _, line := range lines {
		f.Comment(line)
	}
}
