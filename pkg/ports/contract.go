package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiflux/orderbot/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	convID := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession(convID)
		sess.Active = true
		sess.Step = domain.StepMenu
		sess.ZoneName = "Centro"
		sess.DeliveryFee = 5
		sess.Items = append(sess.Items, domain.LineItem{Name: "Pizza", Quantity: 2, Subtotal: 20})

		err := store.Save(ctx, convID, sess)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, convID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StepMenu, loaded.Step)
		assert.Equal(t, "Centro", loaded.ZoneName)
		assert.Equal(t, 5.0, loaded.DeliveryFee)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, "Pizza", loaded.Items[0].Name)
	})

	t.Run("Load is isolated from later mutation", func(t *testing.T) {
		sess := domain.NewSession(convID)
		require.NoError(t, store.Save(ctx, convID, sess))

		loaded, err := store.Load(ctx, convID)
		require.NoError(t, err)
		loaded.Items = append(loaded.Items, domain.LineItem{Name: "X", Quantity: 1, Subtotal: 1})

		again, err := store.Load(ctx, convID)
		require.NoError(t, err)
		assert.Empty(t, again.Items, "mutating a loaded session must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+convID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, convID, domain.NewSession(convID))
		require.NoError(t, err)

		err = store.Delete(ctx, convID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, convID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := convID + "-1"
		id2 := convID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1))
		_ = store.Save(ctx, id2, domain.NewSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
