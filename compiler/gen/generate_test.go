package gen_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkwei/shapec/compiler/gen"
	"github.com/mkwei/shapec/compiler/gen/golang"
	"github.com/mkwei/shapec/compiler/load"
)

const generateModel = `
package: api
shapes:
  - name: Status
    kind: enum
    values: [ACTIVE, DISABLED]
  - name: TagList
    kind: list
    elem: string
  - name: User
    kind: structure
    members:
      - name: name
        target: string
        required: true
      - name: status
        target: Status
        default: ACTIVE
      - name: tags
        target: TagList
  - name: Event
    kind: union
    members:
      - name: message
        target: string
      - name: code
        target: long
`

func testGraph(t *testing.T) *gen.Graph {
	t.Helper()
	m, err := load.FromBytes([]byte(generateModel))
	require.NoError(t, err)
	g, err := gen.NewGraph(m)
	require.NoError(t, err)
	return g
}

func TestGenerate(t *testing.T) {
	g := testGraph(t)
	dir := t.TempDir()
	cfg := gen.Config{Package: "api", Target: gen.TargetClient}
	backend := golang.New(g, gen.NewResolver(), cfg)

	err := gen.NewGenerator(g, dir).
		WithBackend(backend).
		WithWorkers(2).
		Generate(context.Background())
	require.NoError(t, err)

	// Structures produce the type file and the builder file; unions and
	// enums one file each; lists none.
	for _, name := range []string{"user.go", "user_builder.go", "event.go", "status.go"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), gen.DefaultHeader, name)
		assert.Contains(t, string(data), "package api", name)
	}
	_, err = os.Stat(filepath.Join(dir, "taglist.go"))
	assert.True(t, os.IsNotExist(err))

	// Client target renders the catch-all variant.
	data, err := os.ReadFile(filepath.Join(dir, "event.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "IsUnknown")
}

func TestGenerate_NoBackend(t *testing.T) {
	g := testGraph(t)

	err := gen.NewGenerator(g, t.TempDir()).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gen.ErrMissingConfig))
	assert.Contains(t, err.Error(), "no backend set")
}

func TestGenerate_PackageFallback(t *testing.T) {
	g := testGraph(t)
	g.Package = ""
	gn := gen.NewGenerator(g, "/tmp/out/models")
	assert.Equal(t, "models", gn.Pkg())

	gn = gen.NewGenerator(testGraph(t), "/tmp/out/models")
	assert.Equal(t, "api", gn.Pkg())
}
