package courier_test

import (
	"testing"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourier(t *testing.T) {
	t.Run("should create active courier with default limit", func(t *testing.T) {
		id := kernel.NewUUID()

		c, err := courier.NewCourier(id, "  Minh  ", "0903000222")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(id))
		assert.Equal(t, "Minh", c.Name())
		assert.True(t, c.IsActive())
		assert.Equal(t, courier.DefaultMaxActiveOrders, c.MaxActiveOrders())
	})

	t.Run("should require id and name", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.UUID{}, "", "")

		require.Error(t, err)
		require.ErrorIs(t, err, courier.ErrNameIsRequired)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var c courier.Courier

		require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)
	})
}

func TestRestoreCourier(t *testing.T) {
	t.Run("should keep inactive flag", func(t *testing.T) {
		c, err := courier.RestoreCourier(kernel.NewUUID(), "Hoa", "", false, 3)

		require.NoError(t, err)
		assert.False(t, c.IsActive())
		assert.Equal(t, 3, c.MaxActiveOrders())
	})

	t.Run("should reject load limit out of range", func(t *testing.T) {
		_, err := courier.RestoreCourier(kernel.NewUUID(), "Hoa", "", true, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestCourier_Activation(t *testing.T) {
	t.Run("should toggle active flag", func(t *testing.T) {
		c, err := courier.NewCourier(kernel.NewUUID(), "Minh", "")
		require.NoError(t, err)

		c.Deactivate()
		assert.False(t, c.IsActive())

		c.Activate()
		assert.True(t, c.IsActive())
	})
}
