package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock(t *testing.T) {
	ctx := context.Background()

	t.Run("owner acquires", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")

		require.NoError(t, s.AcquireLock(ctx, item.ID, alice))

		got, err := s.Get(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.True(t, got.LockHeld)
		assert.Equal(t, alice, got.LockHolder)
	})

	t.Run("idempotent for current holder", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")

		require.NoError(t, s.AcquireLock(ctx, item.ID, alice))
		assert.NoError(t, s.AcquireLock(ctx, item.ID, alice))
	})

	t.Run("conflict leaves holder unchanged", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")
		mustAddEditor(t, s, item.ID, alice, bob)

		require.NoError(t, s.AcquireLock(ctx, item.ID, bob))
		assert.ErrorIs(t, s.AcquireLock(ctx, item.ID, alice), ErrLockConflict)

		got, err := s.Get(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, bob, got.LockHolder)
	})

	t.Run("viewer cannot lock", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")
		_, err := s.SetPublic(ctx, item.ID, alice, true)
		require.NoError(t, err)

		assert.ErrorIs(t, s.AcquireLock(ctx, item.ID, carol), ErrPermissionDenied)
	})

	t.Run("trashed item cannot be locked", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")
		require.NoError(t, s.SoftDelete(ctx, item.ID, alice))

		assert.ErrorIs(t, s.AcquireLock(ctx, item.ID, alice), ErrInvalidState)
	})

	t.Run("unknown item", func(t *testing.T) {
		s, _ := newTestService(t)
		assert.ErrorIs(t, s.AcquireLock(ctx, "no-such-id", alice), ErrNotFound)
	})
}

func TestReleaseLock(t *testing.T) {
	ctx := context.Background()

	t.Run("holder releases", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")
		require.NoError(t, s.AcquireLock(ctx, item.ID, alice))

		require.NoError(t, s.ReleaseLock(ctx, item.ID, alice))

		got, err := s.Get(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.False(t, got.LockHeld)
		assert.Empty(t, got.LockHolder)
	})

	t.Run("releasing unlocked item succeeds", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")

		assert.NoError(t, s.ReleaseLock(ctx, item.ID, alice))
	})

	t.Run("non-holder cannot release", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")
		mustAddEditor(t, s, item.ID, alice, bob)
		require.NoError(t, s.AcquireLock(ctx, item.ID, bob))

		// The owner has no override; the lock belongs to its holder alone.
		assert.ErrorIs(t, s.ReleaseLock(ctx, item.ID, alice), ErrNotLockHolder)

		got, err := s.Get(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, bob, got.LockHolder)
	})

	t.Run("lock is reacquirable after release", func(t *testing.T) {
		s, _ := newTestService(t)
		item := mustCreateDoc(t, s, alice, "Doc", "text")
		mustAddEditor(t, s, item.ID, alice, bob)

		require.NoError(t, s.AcquireLock(ctx, item.ID, bob))
		require.ErrorIs(t, s.AcquireLock(ctx, item.ID, alice), ErrLockConflict)
		require.NoError(t, s.ReleaseLock(ctx, item.ID, bob))
		assert.NoError(t, s.AcquireLock(ctx, item.ID, alice))
	})
}
