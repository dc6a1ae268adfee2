package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/mkwei/shapec/compiler/gen"
)

// GenUnion generates the tagged-union type for a union shape: the kind tag,
// the type declaration, one constructor/predicate/extractor triple per
// variant, the client-only catch-all machinery and the redaction formatter.
//
// Variants render in resolved-name order, not declaration order, so output
// is diff-stable regardless of member order in the model.
func (b *Backend) GenUnion(t *gen.Shape) *jen.File {
	f := b.newFile()
	sym := b.resolver.Symbol(t)
	name := sym.Name
	recv := b.resolver.Receiver(t)
	members := b.resolver.SortedMembers(t)
	renderUnknown := b.cfg.Target.RenderUnknownVariant()
	kindType := lowerFirst(name) + "Kind"

	b.genUnionKind(f, t, name, kindType, members, renderUnknown)
	b.genUnionType(f, t, name, kindType, members)

	for _, m := range members {
		b.genUnionVariant(f, t, name, recv, kindType, m, len(members) == 1)
	}

	if renderUnknown {
		b.genUnionUnknown(f, name, recv, kindType)
	}
	if !sym.Derives.Stringer {
		b.genUnionString(f, t, name, recv, kindType, members, renderUnknown)
	}
	return f
}

func (b *Backend) genUnionKind(f *jen.File, t *gen.Shape, name, kindType string, members []*gen.Member, renderUnknown bool) {
	f.Commentf("%s identifies the active variant of a %s.", kindType, name)
	f.Type().Id(kindType).Uint8()
	f.Const().DefsFunc(func(group *jen.Group) {
		for i, m := range members {
			c := group.Id(b.kindConst(t, kindType, m))
			if i == 0 {
				c.Id(kindType).Op("=").Iota()
			}
		}
		if renderUnknown {
			group.Line()
			group.Commentf("%sUnknown marks a variant unknown to this generated", kindType)
			group.Comment("version, likely added by a newer server. It exists so responses")
			group.Comment("from an evolved schema still deserialize; request paths reject it.")
			group.Id(kindType + "Unknown")
		}
	})
}

func (b *Backend) genUnionType(f *jen.File, t *gen.Shape, name, kindType string, members []*gen.Member) {
	comment := t.Comment
	if comment == "" {
		comment = fmt.Sprintf("%s is a tagged union; exactly one variant is active at a time.", name)
	}
	writeDoc(f, docLines(comment, "", t.Traits.Deprecated, t.Traits.DeprecatedReason))
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		group.Id("kind").Id(kindType)
		for _, m := range members {
			group.Id(b.variantField(m)).Add(b.composedType(m.Target))
		}
	})
}

// genUnionVariant emits the constructor, predicate and extractor of one
// variant. For a single-member union the extractor has no other variant to
// mismatch against, so it returns the payload unconditionally instead of
// guarding on a tag comparison that can never fail.
func (b *Backend) genUnionVariant(f *jen.File, t *gen.Shape, name, recv, kindType string, m *gen.Member, sole bool) {
	mn := b.resolver.MemberName(m)
	field := b.variantField(m)
	kind := b.kindConst(t, kindType, m)
	payload := b.composedType(m.Target)
	byRef := isReference(m.Target)

	ctor := "New" + name + mn
	comment := m.Comment
	if comment == "" {
		comment = fmt.Sprintf("%s returns a %s holding v as the %s variant.", ctor, name, mn)
	}
	writeDoc(f, docLines(comment, m.Traits.RenamedFrom, m.Traits.Deprecated, m.Traits.DeprecatedReason))
	f.Func().Id(ctor).Params(jen.Id("v").Add(payload)).Id(name).Block(
		jen.Return(jen.Id(name).Values(jen.Dict{
			jen.Id("kind"): jen.Id(kind),
			jen.Id(field):  jen.Id("v"),
		})),
	)

	f.Commentf("Is%s reports whether the %s variant is active.", mn, mn)
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("Is" + mn).Params().Bool().Block(
		jen.Return(jen.Id(recv).Dot("kind").Op("==").Id(kind)),
	)

	var ret *jen.Statement
	var extract jen.Code
	if byRef {
		ret = jen.Params(jen.Add(payload), jen.Op("*").Id(name))
		extract = jen.Return(jen.Id(recv).Dot(field), jen.Nil())
	} else {
		ret = jen.Params(jen.Op("*").Add(payload), jen.Op("*").Id(name))
		extract = jen.Return(jen.Op("&").Id(recv).Dot(field), jen.Nil())
	}
	f.Commentf("As%s returns the %s payload when that variant is active.", mn, mn)
	f.Comment("Otherwise it returns the original value so callers can branch on the")
	f.Comment("mismatch instead of handling an error.")
	if sole {
		f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("As" + mn).Params().Add(ret).Block(extract)
		return
	}
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("As"+mn).Params().Add(ret).Block(
		jen.If(jen.Id(recv).Dot("kind").Op("!=").Id(kind)).Block(
			jen.Return(jen.Nil(), jen.Id(recv)),
		),
		extract,
	)
}

// genUnionUnknown emits the catch-all presence predicate and the canonical
// serialization error. There is deliberately no constructor: the variant is
// response-only and must not be reachable from request-building code.
func (b *Backend) genUnionUnknown(f *jen.File, name, recv, kindType string) {
	f.Comment("IsUnknown reports whether the value holds a variant unknown to this")
	f.Comment("generated version, likely added by a newer server.")
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("IsUnknown").Params().Bool().Block(
		jen.Return(jen.Id(recv).Dot("kind").Op("==").Id(kindType + "Unknown")),
	)

	f.Commentf("ErrUnknown%sVariant is returned by serializers when the catch-all", name)
	f.Comment("variant reaches an outbound request path.")
	f.Var().Id("ErrUnknown" + name + "Variant").Op("=").Qual(runtimePkg, "NewUnknownVariantError").Call(jen.Lit(name))
}

// genUnionString emits the debug formatter. A sensitive union formats to
// one fixed token no matter which variant is active; otherwise sensitive
// members redact individually and the catch-all shows only its name.
func (b *Backend) genUnionString(f *jen.File, t *gen.Shape, name, recv, kindType string, members []*gen.Member, renderUnknown bool) {
	f.Comment("String implements fmt.Stringer with sensitive-value redaction.")
	if t.Traits.Sensitive {
		f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("String").Params().String().Block(
			jen.Return(jen.Qual(runtimePkg, "Redacted")),
		)
		return
	}
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("String").Params().String().Block(
		jen.Switch(jen.Id(recv).Dot("kind")).BlockFunc(func(sw *jen.Group) {
			for _, m := range members {
				mn := b.resolver.MemberName(m)
				kind := b.kindConst(t, kindType, m)
				if m.Traits.Sensitive {
					sw.Case(jen.Id(kind)).Block(
						jen.Return(jen.Lit(name + "(" + mn + ": ").Op("+").Qual(runtimePkg, "Redacted").Op("+").Lit(")")),
					)
					continue
				}
				sw.Case(jen.Id(kind)).Block(
					jen.Return(jen.Qual("fmt", "Sprintf").Call(
						jen.Lit(name+"("+mn+": %v)"),
						jen.Id(recv).Dot(b.variantField(m)),
					)),
				)
			}
			if renderUnknown {
				sw.Case(jen.Id(kindType + "Unknown")).Block(
					jen.Return(jen.Lit(name + "(Unknown)")),
				)
			}
		}),
		jen.Return(jen.Lit(name+"()")),
	)
}

// kindConst returns the tag constant name of a variant.
func (b *Backend) kindConst(_ *gen.Shape, kindType string, m *gen.Member) string {
	return kindType + b.resolver.MemberName(m)
}

// variantField returns the union struct field holding a variant payload.
func (b *Backend) variantField(m *gen.Member) string {
	name := lowerFirst(b.resolver.MemberName(m))
	if name == "kind" {
		// Avoid colliding with the tag field.
		return "kindValue"
	}
	return name
}
