package models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hashicorp-forge/scribe/pkg/content"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "models.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(ModelsToAutoMigrate()...))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *User {
	t.Helper()
	u := User{EmailAddress: email}
	require.NoError(t, u.FirstOrCreate(db))
	return &u
}

func newTestItem(t *testing.T, db *gorm.DB, owner *User, title string) *Item {
	t.Helper()
	item := Item{
		ItemType: ItemTypeDocument,
		Title:    title,
		OwnerID:  owner.ID,
	}
	require.NoError(t, item.SetBody(content.NewDocumentBody("text")))
	require.NoError(t, item.Create(db))
	return &item
}

func TestItemCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice@example.com")

	created := newTestItem(t, db, owner, "Doc")
	require.NotEmpty(t, created.ID)

	got := Item{ID: created.ID}
	require.NoError(t, got.Get(db))
	assert.Equal(t, "Doc", got.Title)
	assert.Equal(t, "alice@example.com", got.OwnerEmail())

	body, err := got.GetBody()
	require.NoError(t, err)
	assert.Equal(t, "text", body.Markdown)
}

func TestItemCreateValidation(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice@example.com")

	t.Run("missing title", func(t *testing.T) {
		item := Item{ItemType: ItemTypeDocument, OwnerID: owner.ID}
		assert.Error(t, item.Create(db))
	})

	t.Run("unknown item type", func(t *testing.T) {
		item := Item{ItemType: "spreadsheet", Title: "X", OwnerID: owner.ID}
		assert.Error(t, item.Create(db))
	})

	t.Run("missing owner", func(t *testing.T) {
		item := Item{ItemType: ItemTypeDocument, Title: "X"}
		assert.Error(t, item.Create(db))
	})
}

func TestItemBeforeSaveInvariants(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice@example.com")

	t.Run("lock holder without held flag", func(t *testing.T) {
		item := newTestItem(t, db, owner, "Doc")
		item.LockHolder = "alice@example.com"
		assert.Error(t, db.Save(item).Error)
	})

	t.Run("trashed without timestamp", func(t *testing.T) {
		item := newTestItem(t, db, owner, "Doc")
		item.Trashed = true
		assert.Error(t, db.Save(item).Error)

		now := time.Now()
		item.TrashedAt = &now
		assert.NoError(t, db.Save(item).Error)
	})

	t.Run("owner in editor set", func(t *testing.T) {
		item := newTestItem(t, db, owner, "Doc")
		item.Owner = owner
		item.Editors = []*User{owner}
		assert.Error(t, db.Save(item).Error)
	})
}

func TestFindActiveItems(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")

	owned := newTestItem(t, db, alice, "Owned")
	shared := newTestItem(t, db, bob, "Shared")
	require.NoError(t,
		db.Model(shared).Association("Editors").Append(alice))

	trashed := newTestItem(t, db, alice, "Trashed")
	now := time.Now()
	require.NoError(t, db.Model(trashed).Updates(map[string]interface{}{
		"trashed":    true,
		"trashed_at": now,
	}).Error)

	items, err := FindActiveItems(db, alice.ID)
	require.NoError(t, err)

	ids := []string{}
	for _, i := range items {
		ids = append(ids, i.ID)
	}
	assert.ElementsMatch(t, []string{owned.ID, shared.ID}, ids)

	trash, err := FindTrashedItems(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, trashed.ID, trash[0].ID)
}
