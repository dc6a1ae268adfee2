package load_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkwei/shapec/compiler/load"
)

const sampleModel = `
package: api
shapes:
  - name: User
    kind: structure
    members:
      - name: name
        target: string
        required: true
      - name: age
        target: integer
      - name: meta
        target: document
        default: null
      - name: retries
        target: integer
        default: 6
  - name: Secret
    kind: union
    sensitive: true
    members:
      - name: token
        target: string
`

func TestFromBytes(t *testing.T) {
	t.Parallel()

	m, err := load.FromBytes([]byte(sampleModel))
	require.NoError(t, err)
	assert.Equal(t, "api", m.Package)
	require.Len(t, m.Shapes, 2)

	user := m.Shapes[0]
	assert.Equal(t, "structure", user.Kind)
	require.Len(t, user.Members, 4)
	assert.True(t, user.Members[0].Required)

	// No default declared.
	assert.Nil(t, user.Members[1].Default)
	// Explicit null default is present but holds nil.
	require.NotNil(t, user.Members[2].Default)
	assert.Nil(t, user.Members[2].Default.Value)
	// Typed default literal.
	require.NotNil(t, user.Members[3].Default)
	assert.Equal(t, 6, user.Members[3].Default.Value)

	assert.True(t, m.Shapes[1].Sensitive)
}

func TestFromBytesInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		model   string
		wantErr string
	}{
		{"empty shape name", "shapes:\n  - kind: union\n", "empty name"},
		{"missing kind", "shapes:\n  - name: A\n", "has no kind"},
		{"duplicate shape", "shapes:\n  - {name: A, kind: union}\n  - {name: A, kind: union}\n", `duplicate shape "A"`},
		{"member without target", "shapes:\n  - name: A\n    kind: union\n    members:\n      - name: x\n", "has no target"},
		{"duplicate member", "shapes:\n  - name: A\n    kind: union\n    members:\n      - {name: x, target: string}\n      - {name: x, target: integer}\n", `duplicate member "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load.FromBytes([]byte(tt.model))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleModel), 0o644))

	m, err := load.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "api", m.Package)

	_, err = load.FromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
