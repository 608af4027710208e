package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upright/escrow/pkg/kvstore"
	"github.com/upright/escrow/pkg/models"
	"github.com/upright/escrow/pkg/storage"
)

func newTestService() *Service {
	store := storage.NewKV(kvstore.NewMemoryStore())
	return New(store, store)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Opens A Session", func(t *testing.T) {
		svc := newTestService()

		user, err := svc.Register(ctx, "b@x.com", "Blake", models.RoleBuyer)

		require.NoError(t, err)
		assert.NotEmpty(t, user.Id)
		assert.Equal(t, "b@x.com", user.Email)
		assert.Equal(t, "Blake", user.Name)
		assert.Equal(t, models.RoleBuyer, user.Role)
		assert.False(t, user.CreatedAt.IsZero())

		actor, err := svc.CurrentActor(ctx)
		require.NoError(t, err)
		assert.Equal(t, user.Id, actor.Id)
	})

	t.Run("Defaults Name And Role", func(t *testing.T) {
		svc := newTestService()

		user, err := svc.Register(ctx, "sam@x.com", "", "")

		require.NoError(t, err)
		assert.Equal(t, "sam", user.Name)
		assert.Equal(t, models.RoleBuyer, user.Role)
	})

	t.Run("Normalizes Email", func(t *testing.T) {
		svc := newTestService()

		user, err := svc.Register(ctx, "  Seller@X.Com ", "S", models.RoleSeller)

		require.NoError(t, err)
		assert.Equal(t, "seller@x.com", user.Email)
	})

	t.Run("Duplicate Email Rejected And Directory Unchanged", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "b@x.com", "First", models.RoleBuyer)
		require.NoError(t, err)

		_, err = svc.Register(ctx, "b@x.com", "Second", models.RoleSeller)

		assert.ErrorIs(t, err, ErrEmailTaken)
		users, err := svc.Users.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "First", users[0].Name)
	})

	t.Run("Rejects Unusable Email", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Register(ctx, "not-an-email", "X", models.RoleBuyer)

		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("Concurrent Same Email Yields One Account", func(t *testing.T) {
		// The duplicate scan and the directory rewrite are serialized, so a
		// race cannot slip two accounts past the scan.
		svc := newTestService()

		const n = 16
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = svc.Register(ctx, "b@x.com", "B", models.RoleBuyer)
			}()
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrEmailTaken)
			}
		}
		assert.Equal(t, 1, succeeded)
		users, err := svc.Users.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("Concurrent Distinct Emails All Persist", func(t *testing.T) {
		svc := newTestService()

		const n = 16
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Register(ctx, fmt.Sprintf("user%d@x.com", i), "", models.RoleBuyer)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		users, err := svc.Users.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, n)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc := newTestService()
		registered, err := svc.Register(ctx, "b@x.com", "Blake", models.RoleBuyer)
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx))

		user, err := svc.Login(ctx, "b@x.com")

		require.NoError(t, err)
		assert.Equal(t, registered.Id, user.Id)

		actor, err := svc.CurrentActor(ctx)
		require.NoError(t, err)
		assert.Equal(t, registered.Id, actor.Id)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Login(ctx, "ghost@x.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Login Replaces Session", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, "b@x.com", "B", models.RoleBuyer)
		require.NoError(t, err)
		_, err = svc.Register(ctx, "s@x.com", "S", models.RoleSeller)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "b@x.com")
		require.NoError(t, err)

		actor, err := svc.CurrentActor(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", actor.Email)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, "b@x.com", "B", models.RoleBuyer)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))

	_, err = svc.CurrentActor(ctx)
	assert.ErrorIs(t, err, storage.ErrNoSession)
}
