package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/mkwei/shapec/compiler/gen"
)

// GenEnum generates a string-backed enum: the type, one constant per value
// and the Values helper callers use to enumerate the known set.
func (b *Backend) GenEnum(t *gen.Shape) *jen.File {
	f := b.newFile()
	name := b.resolver.Symbol(t).Name

	comment := t.Comment
	if comment == "" {
		comment = fmt.Sprintf("%s is a generated enum.", name)
	}
	writeDoc(f, docLines(comment, "", t.Traits.Deprecated, t.Traits.DeprecatedReason))
	f.Type().Id(name).String()

	f.Commentf("Known %s values.", name)
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, v := range t.Values {
			group.Id(b.resolver.EnumValueName(t, v)).Id(name).Op("=").Lit(v)
		}
	})

	f.Commentf("Values returns all known values for %s. They are rendered in", name)
	f.Comment("model declaration order.")
	f.Func().Params(jen.Id(name)).Id("Values").Params().Index().Id(name).Block(
		jen.Return(jen.Index().Id(name).ValuesFunc(func(vals *jen.Group) {
			for _, v := range t.Values {
				vals.Line().Id(b.resolver.EnumValueName(t, v))
			}
			vals.Line()
		})),
	)
	return f
}
