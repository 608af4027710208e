package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upright/escrow/pkg/kvstore"
	"github.com/upright/escrow/pkg/models"
)

func TestTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Collection Before First Write", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())

		txs, err := store.ListTransactions(ctx)

		assert.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("Save Then List Preserves Insertion Order", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())
		saved := []models.Transaction{
			{Id: "txn_1", Status: models.PENDING_CONFIRMATION, Amount: 1000},
			{Id: "txn_2", Status: models.CONFIRMED, Amount: 2500},
			{Id: "txn_3", Status: models.CANCELLED, Amount: 50},
		}

		require.NoError(t, store.SaveTransactions(ctx, saved))
		listed, err := store.ListTransactions(ctx)

		assert.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "txn_1", listed[0].Id)
		assert.Equal(t, "txn_2", listed[1].Id)
		assert.Equal(t, "txn_3", listed[2].Id)
	})

	t.Run("Optional Timestamp Round-Trips", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())
		confirmed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, store.SaveTransactions(ctx, []models.Transaction{
			{Id: "txn_1", Status: models.COMPLETED, DeliveryConfirmationDate: &confirmed},
			{Id: "txn_2", Status: models.CONFIRMED},
		}))
		listed, err := store.ListTransactions(ctx)

		assert.NoError(t, err)
		require.Len(t, listed, 2)
		require.NotNil(t, listed[0].DeliveryConfirmationDate)
		assert.True(t, listed[0].DeliveryConfirmationDate.Equal(confirmed))
		assert.Nil(t, listed[1].DeliveryConfirmationDate)
	})
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Save Then List", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())
		users := []models.User{
			{Id: "user_1", Email: "b@x.com", Role: models.RoleBuyer},
			{Id: "user_2", Email: "s@x.com", Role: models.RoleSeller},
		}

		require.NoError(t, store.SaveUsers(ctx, users))
		listed, err := store.ListUsers(ctx)

		assert.NoError(t, err)
		assert.Equal(t, users[0].Email, listed[0].Email)
		assert.Equal(t, users[1].Role, listed[1].Role)
	})
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("No Session Before Login", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())

		_, err := store.GetSession(ctx)

		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("Set Then Get", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())
		user := &models.User{Id: "user_1", Email: "b@x.com", Role: models.RoleBuyer}

		require.NoError(t, store.SetSession(ctx, user))
		got, err := store.GetSession(ctx)

		assert.NoError(t, err)
		assert.Equal(t, user.Id, got.Id)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("Clear Removes Session", func(t *testing.T) {
		store := NewKV(kvstore.NewMemoryStore())
		require.NoError(t, store.SetSession(ctx, &models.User{Id: "user_1"}))

		require.NoError(t, store.ClearSession(ctx))
		_, err := store.GetSession(ctx)

		assert.ErrorIs(t, err, ErrNoSession)
	})
}
