package golang

import (
	"testing"

	"github.com/mkwei/shapec/compiler/gen"
)

func benchStruct() *gen.Shape {
	name := member("name", prim(gen.KindString))
	name.Traits.Required = true
	retries := member("retries", prim(gen.KindInteger))
	retries.Traits.HasDefault = true
	retries.Traits.Default = 3
	return structShape("Job",
		name,
		retries,
		member("owner", prim(gen.KindString)),
		member("tags", listOf("Tags", prim(gen.KindString))),
		member("meta", prim(gen.KindDocument)),
	)
}

func BenchmarkGenStruct(b *testing.B) {
	s := benchStruct()
	back := newTestBackend(gen.TargetServer, s)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = back.GenStruct(s).GoString()
	}
}

func BenchmarkGenBuilder(b *testing.B) {
	s := benchStruct()
	back := newTestBackend(gen.TargetServer, s)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = back.GenBuilder(s).GoString()
	}
}

func BenchmarkGenUnion(b *testing.B) {
	u := unionShape("Event",
		member("message", prim(gen.KindString)),
		member("code", prim(gen.KindLong)),
		member("payload", prim(gen.KindDocument)),
	)
	back := newTestBackend(gen.TargetClient, u)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = back.GenUnion(u).GoString()
	}
}
