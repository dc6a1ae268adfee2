package golang

import (
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/mkwei/shapec/compiler/gen"
)

// GenStruct generates the structure type, its redacting String method and
// the convenience constructor that shortcuts "new builder, set all, build".
func (b *Backend) GenStruct(t *gen.Shape) *jen.File {
	f := b.newFile()
	sym := b.resolver.Symbol(t)
	name := sym.Name
	members := b.resolver.SortedMembers(t)

	comment := t.Comment
	if comment == "" {
		comment = fmt.Sprintf("%s is a generated structure.", name)
	}
	writeDoc(f, docLines(comment, "", t.Traits.Deprecated, t.Traits.DeprecatedReason))
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, m := range members {
			for _, line := range docLines(m.Comment, m.Traits.RenamedFrom, m.Traits.Deprecated, m.Traits.DeprecatedReason) {
				group.Comment(line)
			}
			group.Id(b.resolver.MemberName(m)).Add(b.fieldType(m))
		}
	})

	if !sym.Derives.Stringer {
		b.genStructString(f, t, name, members)
	}
	b.genConvenienceCtor(f, t, name, members)
	return f
}

// genStructString emits the debug formatter. A sensitive structure formats
// to the fixed token; otherwise sensitive members redact individually.
func (b *Backend) genStructString(f *jen.File, t *gen.Shape, name string, members []*gen.Member) {
	recv := "_e"
	f.Comment("String implements fmt.Stringer with sensitive-value redaction.")
	if t.Traits.Sensitive {
		f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("String").Params().String().Block(
			jen.Return(jen.Qual(runtimePkg, "Redacted")),
		)
		return
	}
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("String").Params().String().BlockFunc(func(grp *jen.Group) {
		grp.Var().Id("builder").Qual("strings", "Builder")
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(name + "("))
		for i, m := range members {
			mn := b.resolver.MemberName(m)
			prefix := m.Name + "="
			if i > 0 {
				prefix = ", " + prefix
			}
			if m.Traits.Sensitive {
				grp.Id("builder").Dot("WriteString").Call(
					jen.Lit(prefix).Op("+").Qual(runtimePkg, "Redacted"),
				)
				continue
			}
			if pointerField(m) {
				// Show the value, not the pointer address.
				grp.Id("builder").Dot("WriteString").Call(jen.Lit(prefix))
				grp.If(jen.Id(recv).Dot(mn).Op("!=").Nil()).Block(
					jen.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprintf").Call(
						jen.Lit("%v"),
						jen.Op("*").Id(recv).Dot(mn),
					)),
				).Else().Block(
					jen.Id("builder").Dot("WriteString").Call(jen.Lit("<nil>")),
				)
				continue
			}
			grp.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprintf").Call(
				jen.Lit(prefix+"%v"),
				jen.Id(recv).Dot(mn),
			))
		}
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(")"))
		grp.Return(jen.Id("builder").Dot("String").Call())
	})
}

// genConvenienceCtor emits New<Name>, taking one parameter per member in
// sorted order and forwarding through the builder so defaulting and
// validation behave identically to the long form.
func (b *Backend) genConvenienceCtor(f *jen.File, t *gen.Shape, name string, members []*gen.Member) {
	f.Commentf("New%s builds a %s in one call. Members with a nil or pointer", name, name)
	f.Comment("parameter left nil stay unset and resolve like unset builder slots:")
	f.Comment("defaults materialize, optional members stay absent and missing")
	f.Comment("required members fail the build.")
	f.Func().Id("New" + name).ParamsFunc(func(params *jen.Group) {
		for _, m := range members {
			params.Id(b.paramName(m)).Add(b.ctorParamType(m))
		}
	}).Params(jen.Op("*").Id(name), jen.Error()).BlockFunc(func(grp *jen.Group) {
		grp.Id("_b").Op(":=").Id("New" + name + "Builder").Call()
		for _, m := range members {
			mn := b.resolver.MemberName(m)
			arg := jen.Id(b.paramName(m))
			if b.bareCtorParam(m) || isNilable(m.Target) {
				grp.Id("_b").Dot("Set" + mn).Call(arg)
			} else {
				grp.Id("_b").Dot("SetNillable" + mn).Call(arg)
			}
		}
		grp.Return(jen.Id("_b").Dot("Build").Call())
	})
}

// ctorParamType returns the convenience-constructor parameter type of a
// member: bare for required defaultless value members, composed for members
// with a natural nil sentinel, pointer otherwise.
func (b *Backend) ctorParamType(m *gen.Member) jen.Code {
	t := b.composedType(m.Target)
	if b.bareCtorParam(m) || isNilable(m.Target) {
		return t
	}
	return jen.Op("*").Add(t)
}

// bareCtorParam reports whether the member must always be supplied by value.
func (b *Backend) bareCtorParam(m *gen.Member) bool {
	return m.Traits.Required && !m.Traits.HasDefault && !isNilable(m.Target)
}

// paramName derives a parameter identifier from the resolved member name,
// avoiding Go keywords.
func (b *Backend) paramName(m *gen.Member) string {
	s := lowerFirst(b.resolver.MemberName(m))
	if token.IsKeyword(s) {
		return s + "_"
	}
	return s
}
