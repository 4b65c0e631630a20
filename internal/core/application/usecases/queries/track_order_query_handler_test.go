package queries_test

import (
	"context"
	"strings"
	"testing"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackOrderQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should find an order by code in any case", func(t *testing.T) {
		f := newFixture(t)
		o := f.addOrder(t, order.Fast, now)
		q, err := queries.NewTrackOrderQuery("  " + strings.ToLower(o.Code()) + " ")
		require.NoError(t, err)

		view, err := queries.NewTrackOrderQueryHandler(f.db).Handle(ctx, q)

		require.NoError(t, err)
		assert.Equal(t, o.Code(), view.Code)
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, "fast", view.ServiceLevel)
		assert.Equal(t, now, view.CreatedAt)
		assert.Nil(t, view.AssignedAt)
	})

	t.Run("should report unknown code as not found", func(t *testing.T) {
		f := newFixture(t)
		q, err := queries.NewTrackOrderQuery("NF-20250601100000-ABCD")
		require.NoError(t, err)

		_, err = queries.NewTrackOrderQueryHandler(f.db).Handle(ctx, q)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should require a code", func(t *testing.T) {
		_, err := queries.NewTrackOrderQuery(" ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
