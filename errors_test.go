package shapec_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkwei/shapec"
)

func TestValidationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := shapec.NewMissingFieldsError("User", "name", "email")
		assert.Equal(t, "shapec: cannot build User: missing required fields: name, email", err.Error())
		assert.Equal(t, []string{"name", "email"}, err.FieldNames())
	})

	t.Run("Reason", func(t *testing.T) {
		err := shapec.NewMissingFieldsError("User", "name")
		require.Len(t, err.Fields, 1)
		assert.Equal(t, shapec.FieldError{Name: "name", Reason: "missing"}, err.Fields[0])
	})

	t.Run("Is", func(t *testing.T) {
		err := shapec.NewMissingFieldsError("Order", "id")
		assert.True(t, errors.Is(err, shapec.ErrMissingField))
	})

	t.Run("IsValidation", func(t *testing.T) {
		err := shapec.NewMissingFieldsError("Order", "id")
		assert.True(t, shapec.IsValidation(err))

		// Wrapped error
		wrapped := fmt.Errorf("saving request: %w", err)
		assert.True(t, shapec.IsValidation(wrapped))

		var ve *shapec.ValidationError
		require.True(t, errors.As(wrapped, &ve))
		assert.Equal(t, "Order", ve.Struct)

		assert.False(t, shapec.IsValidation(nil))
		assert.False(t, shapec.IsValidation(errors.New("other")))
	})
}

func TestUnknownVariantError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := shapec.NewUnknownVariantError("Payload")
		assert.Equal(t, "shapec: cannot serialize union Payload: the unknown variant is response-only and represents a member added by a newer server", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := shapec.NewUnknownVariantError("Payload")
		assert.True(t, errors.Is(err, shapec.ErrUnknownVariant))
	})

	t.Run("IsUnknownVariant", func(t *testing.T) {
		err := shapec.NewUnknownVariantError("Payload")
		assert.True(t, shapec.IsUnknownVariant(err))
		assert.False(t, shapec.IsUnknownVariant(shapec.NewMissingFieldsError("X", "y")))
		assert.False(t, shapec.IsUnknownVariant(nil))
	})
}
