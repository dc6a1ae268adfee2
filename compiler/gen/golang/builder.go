package golang

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dave/jennifer/jen"

	"github.com/mkwei/shapec/compiler/gen"
	"github.com/mkwei/shapec/document"
)

// GenBuilder generates the companion builder for a structure shape: one
// optional slot per member, chainable setters, default materialization,
// required-field validation and the fallible Build step.
func (b *Backend) GenBuilder(t *gen.Shape) *jen.File {
	f := b.newFile()
	name := b.resolver.Symbol(t).Name
	builderName := name + "Builder"
	recv := "_b"
	members := b.resolver.SortedMembers(t)

	f.Commentf("%s is the builder for creating a %s. Slots start unset and are", builderName, name)
	f.Comment("consumed by a single Build call; setters may run in any order and")
	f.Comment("the last write wins.")
	f.Type().Id(builderName).StructFunc(func(group *jen.Group) {
		for _, m := range members {
			group.Id(b.slotField(m)).Add(b.slotType(m))
		}
	})

	f.Commentf("New%s returns an empty builder for %s.", builderName, name)
	f.Func().Id("New" + builderName).Params().Op("*").Id(builderName).Block(
		jen.Return(jen.Op("&").Id(builderName).Values()),
	)

	for _, m := range members {
		b.genSetter(f, builderName, recv, m)
	}

	b.genBuild(f, t, name, builderName, recv, members)
	if needsDefaults(members) {
		b.genDefaults(f, builderName, recv, members)
	}
	b.genCheck(f, t, name, builderName, recv, members)
	return f
}

// genSetter emits the setter pair of one member. Members whose composed
// form has a nil sentinel get a single setter; value members additionally
// get the nillable form so callers can forward optional values without
// branching.
func (b *Backend) genSetter(f *jen.File, builderName, recv string, m *gen.Member) {
	mn := b.resolver.MemberName(m)
	field := b.slotField(m)
	composed := b.composedType(m.Target)

	writeDoc(f, docLines(
		fmt.Sprintf("Set%s sets the %s member. Calling it again overwrites the previous value.", mn, m.Name),
		m.Traits.RenamedFrom, m.Traits.Deprecated, m.Traits.DeprecatedReason,
	))
	if isNilable(m.Target) {
		f.Func().Params(jen.Id(recv).Op("*").Id(builderName)).Id("Set"+mn).Params(
			jen.Id("v").Add(composed),
		).Op("*").Id(builderName).Block(
			jen.Id(recv).Dot(field).Op("=").Id("v"),
			jen.Return(jen.Id(recv)),
		)
		return
	}
	f.Func().Params(jen.Id(recv).Op("*").Id(builderName)).Id("Set"+mn).Params(
		jen.Id("v").Add(composed),
	).Op("*").Id(builderName).Block(
		jen.Id(recv).Dot(field).Op("=").Op("&").Id("v"),
		jen.Return(jen.Id(recv)),
	)

	f.Commentf("SetNillable%s sets the %s member if v is not nil.", mn, m.Name)
	f.Func().Params(jen.Id(recv).Op("*").Id(builderName)).Id("SetNillable"+mn).Params(
		jen.Id("v").Op("*").Add(composed),
	).Op("*").Id(builderName).Block(
		jen.If(jen.Id("v").Op("!=").Nil()).Block(
			jen.Id(recv).Dot("Set"+mn).Call(jen.Op("*").Id("v")),
		),
		jen.Return(jen.Id(recv)),
	)
}

// genBuild emits the single fallible construction step.
func (b *Backend) genBuild(f *jen.File, t *gen.Shape, name, builderName, recv string, members []*gen.Member) {
	f.Commentf("Build constructs the %s. Unset members resolve to their declared", name)
	f.Comment("default, to empty for collections or to absent for optional members;")
	f.Comment("every required member still unset after defaulting is reported in one")
	f.Comment("validation error.")
	f.Func().Params(jen.Id(recv).Op("*").Id(builderName)).Id("Build").Params().Params(
		jen.Op("*").Id(name), jen.Error(),
	).BlockFunc(func(grp *jen.Group) {
		if needsDefaults(members) {
			grp.Id(recv).Dot("defaults").Call()
		}
		grp.If(
			jen.Id("err").Op(":=").Id(recv).Dot("check").Call(),
			jen.Id("err").Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Id("err")),
		)
		grp.Id("v").Op(":=").Op("&").Id(name).Values()
		for _, m := range members {
			b.genAssign(grp, recv, m)
		}
		grp.Return(jen.Id("v"), jen.Nil())
	})
}

// genAssign moves one slot into the built value.
func (b *Backend) genAssign(grp *jen.Group, recv string, m *gen.Member) {
	mn := b.resolver.MemberName(m)
	field := b.slotField(m)
	switch {
	case m.Target.Kind.IsCollection() && !m.Traits.Required:
		// Unset collections build to empty, never to a true absent value.
		grp.If(jen.Id(recv).Dot(field).Op("!=").Nil()).Block(
			jen.Id("v").Dot(mn).Op("=").Id(recv).Dot(field),
		).Else().Block(
			jen.Id("v").Dot(mn).Op("=").Add(b.emptyCollection(m.Target)),
		)
	case isNilable(m.Target):
		grp.Id("v").Dot(mn).Op("=").Id(recv).Dot(field)
	case m.Traits.Required || m.Traits.HasDefault:
		// Non-nil after defaults() and check().
		grp.Id("v").Dot(mn).Op("=").Op("*").Id(recv).Dot(field)
	default:
		// Optional value member: the field is the pointer itself.
		grp.Id("v").Dot(mn).Op("=").Id(recv).Dot(field)
	}
}

func (b *Backend) emptyCollection(s *gen.Shape) jen.Code {
	if s.Kind == gen.KindList {
		return jen.Index().Add(b.composedType(s.Elem)).Values()
	}
	return jen.Map(jen.String()).Add(b.composedType(s.Value)).Values()
}

// genDefaults emits the defaults method, setting declared default values on
// unset slots before validation. A default that is the explicit null
// document still counts as a present value, so required members with such a
// default pass check().
func (b *Backend) genDefaults(f *jen.File, builderName, recv string, members []*gen.Member) {
	f.Comment("defaults materializes declared default values for unset members.")
	f.Func().Params(jen.Id(recv).Op("*").Id(builderName)).Id("defaults").Params().BlockFunc(func(grp *jen.Group) {
		for _, m := range members {
			if !m.Traits.HasDefault {
				continue
			}
			field := b.slotField(m)
			if isNilable(m.Target) {
				grp.If(jen.Id(recv).Dot(field).Op("==").Nil()).Block(
					jen.Id(recv).Dot(field).Op("=").Add(b.defaultExpr(m)),
				)
				continue
			}
			grp.If(jen.Id(recv).Dot(field).Op("==").Nil()).Block(
				jen.Id("v").Op(":=").Add(b.defaultExpr(m)),
				jen.Id(recv).Dot(field).Op("=").Op("&").Id("v"),
			)
		}
	})
}

// genCheck emits the check method, collecting every required member without
// a default that is still unset. The whole set is reported at once so a
// caller can fix all missing fields after a single failed build.
func (b *Backend) genCheck(f *jen.File, t *gen.Shape, name, builderName, recv string, members []*gen.Member) {
	f.Comment("check reports all required members left unset.")
	f.Func().Params(jen.Id(recv).Op("*").Id(builderName)).Id("check").Params().Error().BlockFunc(func(grp *jen.Group) {
		required := requiredDefaultless(members)
		if len(required) == 0 {
			grp.Return(jen.Nil())
			return
		}
		grp.Var().Id("missing").Index().String()
		for _, m := range required {
			grp.If(jen.Id(recv).Dot(b.slotField(m)).Op("==").Nil()).Block(
				jen.Id("missing").Op("=").Append(jen.Id("missing"), jen.Lit(m.Name)),
			)
		}
		grp.If(jen.Len(jen.Id("missing")).Op(">").Lit(0)).Block(
			jen.Return(jen.Qual(runtimePkg, "NewMissingFieldsError").Call(
				jen.Lit(name), jen.Id("missing").Op("..."),
			)),
		)
		grp.Return(jen.Nil())
	})
}

// defaultExpr renders the typed default literal of a member.
func (b *Backend) defaultExpr(m *gen.Member) jen.Code {
	v := m.Traits.Default
	switch m.Target.Kind {
	case gen.KindBoolean:
		return jen.Lit(v.(bool))
	case gen.KindByte:
		return jen.Int8().Call(jen.Lit(asInt(v)))
	case gen.KindShort:
		return jen.Int16().Call(jen.Lit(asInt(v)))
	case gen.KindInteger:
		return jen.Int32().Call(jen.Lit(asInt(v)))
	case gen.KindLong:
		return jen.Int64().Call(jen.Lit(asInt(v)))
	case gen.KindFloat:
		return jen.Float32().Call(jen.Lit(asFloat(v)))
	case gen.KindDouble:
		return jen.Float64().Call(jen.Lit(asFloat(v)))
	case gen.KindBigInteger:
		return jen.Qual("math/big", "NewInt").Call(jen.Int64().Call(jen.Lit(asInt(v))))
	case gen.KindBigDecimal:
		return jen.Qual("math/big", "NewFloat").Call(jen.Lit(asFloat(v)))
	case gen.KindString:
		return jen.Lit(v.(string))
	case gen.KindTimestamp:
		// Validated as RFC3339 at graph-build time.
		ts, _ := time.Parse(time.RFC3339, v.(string))
		ts = ts.UTC()
		return jen.Qual("time", "Date").Call(
			jen.Lit(ts.Year()), jen.Qual("time", ts.Month().String()), jen.Lit(ts.Day()),
			jen.Lit(ts.Hour()), jen.Lit(ts.Minute()), jen.Lit(ts.Second()),
			jen.Lit(ts.Nanosecond()), jen.Qual("time", "UTC"),
		)
	case gen.KindEnum:
		return jen.Id(b.resolver.EnumValueName(m.Target, v.(string)))
	case gen.KindDocument:
		// Validated at graph-build time.
		d, _ := document.FromLiteral(v)
		return documentExpr(d)
	default:
		// Unreachable: validateDefault rejects other kinds.
		return jen.Nil()
	}
}

// documentExpr renders a materialized document literal as constructor
// calls, preserving the numeric subtype.
func documentExpr(d document.Document) jen.Code {
	switch d.Kind() {
	case document.KindNull:
		return jen.Qual(documentPkg, "Null").Call()
	case document.KindBool:
		v, _ := d.AsBool()
		return jen.Qual(documentPkg, "Bool").Call(jen.Lit(v))
	case document.KindString:
		v, _ := d.AsString()
		return jen.Qual(documentPkg, "Str").Call(jen.Lit(v))
	case document.KindNumber:
		n, _ := d.AsNumber()
		switch n.Kind() {
		case document.NumberNegInt:
			v, _ := n.NegInt()
			return jen.Qual(documentPkg, "NegInt").Call(jen.Lit(int(v)))
		case document.NumberFloat:
			v, _ := n.Float()
			return jen.Qual(documentPkg, "Float").Call(jen.Lit(v))
		default:
			v, _ := n.PosInt()
			if v > math.MaxInt64 {
				// Too large for an int literal; emit the uint64 form.
				return jen.Qual(documentPkg, "PosInt").Call(jen.Lit(v))
			}
			return jen.Qual(documentPkg, "PosInt").Call(jen.Lit(int(v)))
		}
	case document.KindList:
		items, _ := d.AsList()
		return jen.Qual(documentPkg, "List").CallFunc(func(args *jen.Group) {
			for _, item := range items {
				args.Add(documentExpr(item))
			}
		})
	default:
		entries, _ := d.AsMap()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return jen.Qual(documentPkg, "Map").Call(
			jen.Map(jen.String()).Qual(documentPkg, "Document").ValuesFunc(func(vals *jen.Group) {
				for _, k := range keys {
					vals.Line().Lit(k).Op(":").Add(documentExpr(entries[k]))
				}
				if len(keys) > 0 {
					vals.Line()
				}
			}),
		)
	}
}

// slotField returns the builder struct field of a member.
func (b *Backend) slotField(m *gen.Member) string {
	name := lowerFirst(b.resolver.MemberName(m))
	switch name {
	case "missing", "v", "err", "check", "defaults":
		// Avoid colliding with the builder's methods and Build/check locals.
		return name + "_"
	}
	return name
}

func asInt(v any) int {
	switch v := v.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

func asFloat(v any) float64 {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

func needsDefaults(members []*gen.Member) bool {
	for _, m := range members {
		if m.Traits.HasDefault {
			return true
		}
	}
	return false
}

func requiredDefaultless(members []*gen.Member) []*gen.Member {
	var out []*gen.Member
	for _, m := range members {
		if m.Traits.Required && !m.Traits.HasDefault {
			out = append(out, m)
		}
	}
	return out
}
