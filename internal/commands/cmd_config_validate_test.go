package commands

import (
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFieldErrors(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, splitFieldErrors(nil))
	})

	t.Run("structural error maps to config pseudo-field", func(t *testing.T) {
		got := splitFieldErrors(errors.New("wb.take must be between 1 and 5000"))

		require.Len(t, got, 1)
		assert.Equal(t, "config", got[0].Field)
		assert.Equal(t, "wb.take must be between 1 and 5000", got[0].Message)
	})

	t.Run("field errors flattened", func(t *testing.T) {
		err := criterio.NewFieldErrors("wb.base_url", errors.New("URL missing host"))

		got := splitFieldErrors(err)

		require.Len(t, got, 1)
		assert.Equal(t, "wb.base_url", got[0].Field)
		assert.Equal(t, "URL missing host", got[0].Message)
	})

	t.Run("multiple field errors", func(t *testing.T) {
		var b criterio.FieldErrorsBuilder
		b = b.Append("ai.base_url", errors.New("invalid URL"))
		b = b.Append("tui.theme", errors.New("unknown theme"))

		got := splitFieldErrors(b.ToError())

		require.Len(t, got, 2)
		assert.Equal(t, "ai.base_url", got[0].Field)
		assert.Equal(t, "tui.theme", got[1].Field)
	})
}
