package golang

import "github.com/mkwei/shapec/compiler/gen"

// Helpers for constructing shapes directly, without the loader.

func prim(kind gen.Kind) *gen.Shape {
	return &gen.Shape{Name: kind.String(), Kind: kind}
}

func member(name string, target *gen.Shape) *gen.Member {
	return &gen.Member{Name: name, Target: target}
}

func structShape(name string, members ...*gen.Member) *gen.Shape {
	s := &gen.Shape{Name: name, Kind: gen.KindStructure, Members: members}
	for _, m := range members {
		m.Owner = s
	}
	return s
}

func unionShape(name string, members ...*gen.Member) *gen.Shape {
	s := &gen.Shape{Name: name, Kind: gen.KindUnion, Members: members}
	for _, m := range members {
		m.Owner = s
	}
	return s
}

func enumShape(name string, values ...string) *gen.Shape {
	return &gen.Shape{Name: name, Kind: gen.KindEnum, Values: values}
}

func listOf(name string, elem *gen.Shape) *gen.Shape {
	return &gen.Shape{Name: name, Kind: gen.KindList, Elem: elem}
}

func mapOf(name string, value *gen.Shape) *gen.Shape {
	return &gen.Shape{Name: name, Kind: gen.KindMap, Key: prim(gen.KindString), Value: value}
}

func newTestBackend(target gen.Target, shapes ...*gen.Shape) *Backend {
	graph := &gen.Graph{Package: "api", Shapes: shapes}
	return New(graph, gen.NewResolver(), gen.Config{Package: "api", Target: target})
}
