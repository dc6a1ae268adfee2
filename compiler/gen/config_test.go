package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	assert.NoError(t, TargetClient.Validate())
	assert.NoError(t, TargetServer.Validate())

	err := Target("browser").Validate()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfig))

	assert.True(t, TargetClient.RenderUnknownVariant())
	assert.False(t, TargetServer.RenderUnknownVariant())
}

func TestConfigHeader(t *testing.T) {
	assert.Equal(t, DefaultHeader, Config{}.HeaderComment())
	assert.Equal(t, "custom", Config{Header: "custom"}.HeaderComment())
}
