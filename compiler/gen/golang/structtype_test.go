package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkwei/shapec/compiler/gen"
)

func TestGenStruct_Fields(t *testing.T) {
	u := testUserStruct()
	b := newTestBackend(gen.TargetServer, u)

	code := b.GenStruct(u).GoString()
	assert.Contains(t, code, "type User struct {")
	// Required value members are bare, optional ones are pointers,
	// collections carry their nil sentinel in the composed form. gofmt
	// aligns the field columns, so match with flexible spacing.
	assert.Regexp(t, `Name\s+string`, code)
	assert.Regexp(t, `Age\s+\*int32`, code)
	assert.Regexp(t, `Tags\s+\[\]string`, code)
}

func TestGenStruct_StructureMemberByReference(t *testing.T) {
	addr := structShape("Address", member("city", prim(gen.KindString)))
	m := member("address", addr)
	m.Traits.Required = true
	s := structShape("User", m)
	b := newTestBackend(gen.TargetServer, s, addr)

	code := b.GenStruct(s).GoString()
	// Structures compose by reference even when required.
	assert.Contains(t, code, "Address *Address")
}

func TestGenStruct_String(t *testing.T) {
	u := testUserStruct()
	b := newTestBackend(gen.TargetServer, u)

	code := b.GenStruct(u).GoString()
	assert.Contains(t, code, "func (_e *User) String() string")
	assert.Contains(t, code, `builder.WriteString("User(")`)
	assert.Contains(t, code, `fmt.Sprintf(", name=%v", _e.Name)`)

	// Optional scalar fields are pointers; the formatter shows the value
	// behind the pointer, or a nil marker, never the address.
	assert.Contains(t, code, `builder.WriteString("age=")`)
	assert.Contains(t, code, "if _e.Age != nil")
	assert.Contains(t, code, `fmt.Sprintf("%v", *_e.Age)`)
	assert.Contains(t, code, `builder.WriteString("<nil>")`)
	assert.NotContains(t, code, `fmt.Sprintf("age=%v", _e.Age)`)
}

func TestGenStruct_SensitiveMemberRedacted(t *testing.T) {
	pw := member("password", prim(gen.KindString))
	pw.Traits.Required = true
	pw.Traits.Sensitive = true
	s := structShape("Credentials", member("login", prim(gen.KindString)), pw)
	b := newTestBackend(gen.TargetServer, s)

	code := b.GenStruct(s).GoString()
	assert.Contains(t, code, `", password=" + shapec.Redacted`)
	assert.NotContains(t, code, "_e.Password")
}

func TestGenStruct_SensitiveStructRedactsWholly(t *testing.T) {
	s := structShape("Secret", member("value", prim(gen.KindString)))
	s.Traits.Sensitive = true
	b := newTestBackend(gen.TargetServer, s)

	code := b.GenStruct(s).GoString()
	assert.Contains(t, code, "return shapec.Redacted")
	assert.NotContains(t, code, "strings.Builder")
}

func TestGenStruct_SkipStringWhenDerived(t *testing.T) {
	u := testUserStruct()
	b := newTestBackend(gen.TargetServer, u)
	b.resolver.Override("User", gen.Symbol{
		Name:    "User",
		Derives: gen.Derives{Stringer: true},
	})

	code := b.GenStruct(u).GoString()
	assert.NotContains(t, code, "String() string")
}

func TestGenStruct_ConvenienceConstructor(t *testing.T) {
	u := testUserStruct()
	b := newTestBackend(gen.TargetServer, u)

	code := b.GenStruct(u).GoString()
	// Parameters follow resolved-name order; optional value members are
	// pointers, required ones bare, collections composed.
	assert.Contains(t, code, "func NewUser(age *int32, name string, tags []string) (*User, error)")
	assert.Contains(t, code, "_b := NewUserBuilder()")
	assert.Contains(t, code, "_b.SetNillableAge(age)")
	assert.Contains(t, code, "_b.SetName(name)")
	assert.Contains(t, code, "_b.SetTags(tags)")
	assert.Contains(t, code, "return _b.Build()")
}

func TestGenStruct_CtorKeywordParam(t *testing.T) {
	m := member("type", prim(gen.KindString))
	m.Traits.Required = true
	s := structShape("Token", m)
	b := newTestBackend(gen.TargetServer, s)

	code := b.GenStruct(s).GoString()
	assert.Contains(t, code, "func NewToken(type_ string) (*Token, error)")
}

func TestGenStruct_MemberDocTrail(t *testing.T) {
	m := member("region", prim(gen.KindString))
	m.Comment = "Region selects the deployment region."
	m.Traits.RenamedFrom = "zone"
	m.Traits.Deprecated = true
	m.Traits.DeprecatedReason = "use placement instead"
	s := structShape("Cluster", m)
	b := newTestBackend(gen.TargetServer, s)

	code := b.GenStruct(s).GoString()
	assert.Contains(t, code, "Region selects the deployment region.")
	assert.Contains(t, code, `Renamed from "zone".`)
	assert.Contains(t, code, "Deprecated: use placement instead")
}
