package gen

import (
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
)

// Derives is the set of capabilities a resolved type already provides
// through another mechanism. Generators consult it to avoid emitting
// duplicate implementations.
type Derives struct {
	// Stringer means a debug formatter already exists; the union and
	// structure generators skip their String method when set.
	Stringer bool
	// Comparable means values support ==.
	Comparable bool
	// Ordered means values support <.
	Ordered bool
}

// Symbol is the target-type descriptor of a shape.
type Symbol struct {
	// Name is the exported Go type name.
	Name string
	// Pointer reports that the type is composed by reference.
	Pointer bool
	// Derives holds capabilities the type already provides.
	Derives Derives
}

// Resolver maps shapes and members to Go names. Resolution is pure and
// deterministic; the sorted-member order it defines is a documented
// generation invariant, not an implementation detail.
type Resolver struct {
	rules     *inflect.Ruleset
	overrides map[string]Symbol
}

// NewResolver returns a resolver with the default naming rules.
func NewResolver() *Resolver {
	return &Resolver{
		rules:     inflect.NewDefaultRuleset(),
		overrides: make(map[string]Symbol),
	}
}

// Override pins a shape to an existing symbol, e.g. a hand-written type
// whose debug formatter is already derived.
func (r *Resolver) Override(shapeName string, sym Symbol) {
	r.overrides[shapeName] = sym
}

// Symbol resolves the target-type descriptor of a shape.
func (r *Resolver) Symbol(s *Shape) Symbol {
	if sym, ok := r.overrides[s.Name]; ok {
		return sym
	}
	switch s.Kind {
	case KindStructure:
		return Symbol{Name: r.exported(s.Name), Pointer: true}
	case KindUnion, KindEnum:
		return Symbol{Name: r.exported(s.Name)}
	case KindString:
		return Symbol{Name: "string", Derives: Derives{Comparable: true, Ordered: true}}
	case KindBoolean:
		return Symbol{Name: "bool", Derives: Derives{Comparable: true}}
	case KindByte:
		return Symbol{Name: "int8", Derives: Derives{Comparable: true, Ordered: true}}
	case KindShort:
		return Symbol{Name: "int16", Derives: Derives{Comparable: true, Ordered: true}}
	case KindInteger:
		return Symbol{Name: "int32", Derives: Derives{Comparable: true, Ordered: true}}
	case KindLong:
		return Symbol{Name: "int64", Derives: Derives{Comparable: true, Ordered: true}}
	case KindFloat:
		return Symbol{Name: "float32", Derives: Derives{Comparable: true, Ordered: true}}
	case KindDouble:
		return Symbol{Name: "float64", Derives: Derives{Comparable: true, Ordered: true}}
	case KindBigInteger:
		return Symbol{Name: "Int", Pointer: true, Derives: Derives{Stringer: true}}
	case KindBigDecimal:
		return Symbol{Name: "Float", Pointer: true, Derives: Derives{Stringer: true}}
	case KindTimestamp:
		return Symbol{Name: "Time", Derives: Derives{Comparable: true, Stringer: true}}
	case KindDocument:
		return Symbol{Name: "Document", Derives: Derives{Stringer: true}}
	default:
		return Symbol{Name: r.exported(s.Name)}
	}
}

// MemberName resolves the exported Go name of a member.
func (r *Resolver) MemberName(m *Member) string {
	return r.exported(m.Name)
}

// EnumValueName resolves the Go constant name of an enum value.
func (r *Resolver) EnumValueName(s *Shape, value string) string {
	return r.exported(s.Name) + r.exported(strings.ToLower(value))
}

// SortedMembers returns the members of a shape sorted by resolved Go name.
// The sort is stable and total, so regenerating from the same shape always
// yields the same order regardless of declaration order in the model.
func (r *Resolver) SortedMembers(s *Shape) []*Member {
	members := make([]*Member, len(s.Members))
	copy(members, s.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return r.MemberName(members[i]) < r.MemberName(members[j])
	})
	return members
}

// acronyms are segments rendered fully upper-cased in exported names.
var acronyms = map[string]string{
	"api":  "API",
	"http": "HTTP",
	"id":   "ID",
	"ip":   "IP",
	"json": "JSON",
	"sql":  "SQL",
	"ttl":  "TTL",
	"uri":  "URI",
	"url":  "URL",
	"uuid": "UUID",
}

// exported converts a schema name to an exported Go identifier.
func (r *Resolver) exported(name string) string {
	segments := strings.Split(r.rules.Underscore(name), "_")
	var b strings.Builder
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if up, ok := acronyms[seg]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(r.rules.Capitalize(seg))
	}
	return b.String()
}

// unexported converts a schema name to an unexported Go identifier.
func (r *Resolver) unexported(name string) string {
	s := r.exported(name)
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Receiver returns the conventional receiver name for a shape's type.
func (r *Resolver) Receiver(s *Shape) string {
	name := r.unexported(s.Name)
	if name == "" {
		return "_x"
	}
	return "_" + name[:1]
}
