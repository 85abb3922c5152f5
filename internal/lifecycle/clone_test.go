package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	ctx := context.Background()

	t.Run("editor clones", func(t *testing.T) {
		s, _ := newTestService(t)
		src := mustCreateDoc(t, s, alice, "Plan", "body text")
		mustAddEditor(t, s, src.ID, alice, bob)
		_, err := s.SetPublic(ctx, src.ID, alice, true)
		require.NoError(t, err)
		require.NoError(t, s.AcquireLock(ctx, src.ID, alice))

		clone, err := s.Clone(ctx, src.ID, bob)
		require.NoError(t, err)

		assert.NotEqual(t, src.ID, clone.ID)
		assert.Equal(t, "Plan (copy)", clone.Title)
		assert.Equal(t, bob, clone.OwnerEmail())
		assert.Empty(t, clone.Editors)
		assert.False(t, clone.IsPublic)
		assert.False(t, clone.LockHeld)
		assert.False(t, clone.Trashed)

		body, err := clone.GetBody()
		require.NoError(t, err)
		assert.Equal(t, "body text", body.Markdown)
	})

	t.Run("clone shares resource files with the source", func(t *testing.T) {
		s, store := newTestService(t)
		img := mustUpload(t, store, "img")
		src := mustCreateDoc(t, s, alice, "Doc", "![x](resource://"+img+")")

		clone, err := s.Clone(ctx, src.ID, alice)
		require.NoError(t, err)

		body, err := clone.GetBody()
		require.NoError(t, err)
		assert.True(t, body.References().Contains(img))

		exists, err := store.Exists(ctx, img)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("clone is independent of the source", func(t *testing.T) {
		s, _ := newTestService(t)
		src := mustCreateDoc(t, s, alice, "Doc", "original")

		clone, err := s.Clone(ctx, src.ID, alice)
		require.NoError(t, err)

		title := "Changed"
		_, err = s.Update(ctx, src.ID, alice, ItemPatch{Title: &title})
		require.NoError(t, err)

		got, err := s.Get(ctx, clone.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, "Doc (copy)", got.Title)
	})

	t.Run("any reader may clone a public item", func(t *testing.T) {
		s, _ := newTestService(t)
		src := mustCreateDoc(t, s, alice, "Public", "text")
		_, err := s.SetPublic(ctx, src.ID, alice, true)
		require.NoError(t, err)

		clone, err := s.Clone(ctx, src.ID, carol)
		require.NoError(t, err)
		assert.Equal(t, carol, clone.OwnerEmail())
	})

	t.Run("unrelated user cannot clone a private item", func(t *testing.T) {
		s, _ := newTestService(t)
		src := mustCreateDoc(t, s, alice, "Private", "text")

		_, err := s.Clone(ctx, src.ID, carol)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("anonymous cannot clone", func(t *testing.T) {
		s, _ := newTestService(t)
		src := mustCreateDoc(t, s, alice, "Public", "text")
		_, err := s.SetPublic(ctx, src.ID, alice, true)
		require.NoError(t, err)

		_, err = s.Clone(ctx, src.ID, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}
