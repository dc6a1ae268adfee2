// Package document provides a recursive, dynamically-typed value used for
// schema-less payloads and for materialized default literals. A Document is
// immutable once constructed: constructors copy their composite inputs and
// accessors return copies of composite values.
package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the active variant of a Document.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindNumber
	KindList
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// NumberKind is the numeric subtype of a Number.
type NumberKind uint8

const (
	// NumberPosInt holds a non-negative integer as uint64.
	NumberPosInt NumberKind = iota
	// NumberNegInt holds a negative integer as int64.
	NumberNegInt
	// NumberFloat holds a floating-point value as float64.
	NumberFloat
)

// Number is the numeric payload of a Document. The subtype distinguishes
// non-negative integers, negative integers and floats so that integer
// literals never silently become floats.
type Number struct {
	kind NumberKind
	pos  uint64
	neg  int64
	f    float64
}

// Kind returns the numeric subtype.
func (n Number) Kind() NumberKind { return n.kind }

// PosInt returns the non-negative integer value, if that is the subtype.
func (n Number) PosInt() (uint64, bool) {
	return n.pos, n.kind == NumberPosInt
}

// NegInt returns the negative integer value, if that is the subtype.
func (n Number) NegInt() (int64, bool) {
	return n.neg, n.kind == NumberNegInt
}

// Float returns the float value, if that is the subtype.
func (n Number) Float() (float64, bool) {
	return n.f, n.kind == NumberFloat
}

// Float64 converts the number to float64 regardless of subtype.
// Large integers may lose precision.
func (n Number) Float64() float64 {
	switch n.kind {
	case NumberPosInt:
		return float64(n.pos)
	case NumberNegInt:
		return float64(n.neg)
	default:
		return n.f
	}
}

// String returns the literal form of the number.
func (n Number) String() string {
	switch n.kind {
	case NumberPosInt:
		return strconv.FormatUint(n.pos, 10)
	case NumberNegInt:
		return strconv.FormatInt(n.neg, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}

// Document is a recursive dynamic value. The zero value is the null document.
type Document struct {
	kind Kind
	b    bool
	s    string
	n    Number
	list []Document
	m    map[string]Document
}

// Null returns the null document. Distinct from an unset builder slot:
// an explicit null literal materializes to this value.
func Null() Document { return Document{kind: KindNull} }

// Bool returns a boolean document.
func Bool(v bool) Document { return Document{kind: KindBool, b: v} }

// Str returns a string document.
func Str(v string) Document { return Document{kind: KindString, s: v} }

// PosInt returns a non-negative integer document.
func PosInt(v uint64) Document {
	return Document{kind: KindNumber, n: Number{kind: NumberPosInt, pos: v}}
}

// NegInt returns a negative integer document. It panics if v is not negative,
// since the subtype would otherwise misreport the sign.
func NegInt(v int64) Document {
	if v >= 0 {
		panic(fmt.Sprintf("document: NegInt called with non-negative value %d", v))
	}
	return Document{kind: KindNumber, n: Number{kind: NumberNegInt, neg: v}}
}

// Int returns an integer document, choosing the signed or unsigned subtype
// by sign.
func Int(v int64) Document {
	if v < 0 {
		return NegInt(v)
	}
	return PosInt(uint64(v))
}

// Float returns a floating-point document.
func Float(v float64) Document {
	return Document{kind: KindNumber, n: Number{kind: NumberFloat, f: v}}
}

// List returns a list document holding a copy of items.
func List(items ...Document) Document {
	cp := make([]Document, len(items))
	copy(cp, items)
	return Document{kind: KindList, list: cp}
}

// Map returns a map document holding a copy of entries. Entry order is not
// significant.
func Map(entries map[string]Document) Document {
	cp := make(map[string]Document, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return Document{kind: KindMap, m: cp}
}

// Kind returns the active variant.
func (d Document) Kind() Kind { return d.kind }

// IsNull reports whether the document is the null document.
func (d Document) IsNull() bool { return d.kind == KindNull }

// AsBool returns the boolean value, if the document is a bool.
func (d Document) AsBool() (bool, bool) {
	return d.b, d.kind == KindBool
}

// AsString returns the string value, if the document is a string.
func (d Document) AsString() (string, bool) {
	return d.s, d.kind == KindString
}

// AsNumber returns the numeric value, if the document is a number.
func (d Document) AsNumber() (Number, bool) {
	return d.n, d.kind == KindNumber
}

// AsList returns a copy of the list items, if the document is a list.
func (d Document) AsList() ([]Document, bool) {
	if d.kind != KindList {
		return nil, false
	}
	cp := make([]Document, len(d.list))
	copy(cp, d.list)
	return cp, true
}

// AsMap returns a copy of the map entries, if the document is a map.
func (d Document) AsMap() (map[string]Document, bool) {
	if d.kind != KindMap {
		return nil, false
	}
	cp := make(map[string]Document, len(d.m))
	for k, v := range d.m {
		cp[k] = v
	}
	return cp, true
}

// Equal reports deep equality. Numbers compare by subtype and value, so
// PosInt(1) and Float(1) are not equal.
func (d Document) Equal(o Document) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case KindNull:
		return true
	case KindBool:
		return d.b == o.b
	case KindString:
		return d.s == o.s
	case KindNumber:
		return d.n == o.n
	case KindList:
		if len(d.list) != len(o.list) {
			return false
		}
		for i := range d.list {
			if !d.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(d.m) != len(o.m) {
			return false
		}
		for k, v := range d.m {
			ov, ok := o.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns a debug rendering. Map keys are sorted so the output is
// deterministic.
func (d Document) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d Document) write(b *strings.Builder) {
	switch d.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(d.b))
	case KindString:
		b.WriteString(strconv.Quote(d.s))
	case KindNumber:
		b.WriteString(d.n.String())
	case KindList:
		b.WriteByte('[')
		for i, item := range d.list {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(d.m))
		for k := range d.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			v := d.m[k]
			v.write(b)
		}
		b.WriteByte('}')
	}
}

// FromLiteral materializes a decoded literal (as produced by yaml or json
// unmarshalling into any) into a Document, preserving the numeric subtype:
// negative integers map to NegInt, non-negative integers to PosInt and
// fractional values to Float. A nil literal maps to the null document.
func FromLiteral(v any) (Document, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case Document:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return Str(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return PosInt(uint64(v)), nil
	case uint8:
		return PosInt(uint64(v)), nil
	case uint16:
		return PosInt(uint64(v)), nil
	case uint32:
		return PosInt(uint64(v)), nil
	case uint64:
		return PosInt(v), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case []any:
		items := make([]Document, len(v))
		for i, item := range v {
			d, err := FromLiteral(item)
			if err != nil {
				return Document{}, err
			}
			items[i] = d
		}
		return List(items...), nil
	case map[string]any:
		entries := make(map[string]Document, len(v))
		for k, item := range v {
			d, err := FromLiteral(item)
			if err != nil {
				return Document{}, err
			}
			entries[k] = d
		}
		return Map(entries), nil
	default:
		return Document{}, fmt.Errorf("document: cannot materialize literal of type %T", v)
	}
}
