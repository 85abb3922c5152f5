package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hashicorp-forge/scribe/pkg/content"
)

// ItemType discriminates the two item variants. Both share the same lifecycle
// fields; only the body payload shape differs.
type ItemType string

const (
	ItemTypeDocument     ItemType = "document"
	ItemTypePresentation ItemType = "presentation"
)

// Item is a document or presentation governed by the lifecycle core.
//
// Lock and trash state are plain columns so that every lifecycle transition
// can be expressed as an atomic conditional UPDATE keyed by item id. The
// store is the sole synchronization point; nothing in this package holds
// in-process locks.
type Item struct {
	// ID is the opaque, immutable item identifier.
	ID string `gorm:"primaryKey;type:varchar(36)"`

	ItemType ItemType `gorm:"type:varchar(20);not null;index"`

	Title string `gorm:"not null"`

	// Owner is the creating user; immutable after creation and never stored
	// in the editor set.
	OwnerID uint  `gorm:"not null;index"`
	Owner   *User `gorm:"foreignKey:OwnerID"`

	// Editors are users with mutate capability.
	Editors []*User `gorm:"many2many:item_editors;"`

	// Body is the serialized content.Body payload.
	Body JSON `gorm:"type:jsonb"`

	// IsPublic grants read-only capability to anonymous requesters when true.
	// Meaningful for documents only, and suppressed while trashed.
	IsPublic bool `gorm:"not null;default:false"`

	// LockHolder is non-empty iff LockHeld.
	LockHeld   bool   `gorm:"not null;default:false"`
	LockHolder string `gorm:"not null;default:''"`

	// TrashedAt is non-nil iff Trashed.
	Trashed   bool `gorm:"not null;default:false;index"`
	TrashedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeSave enforces the stored-state invariants on full-struct writes.
func (i *Item) BeforeSave(tx *gorm.DB) error {
	if i.LockHeld != (i.LockHolder != "") {
		return errors.New("lock holder must be set exactly when the lock is held")
	}
	if i.Trashed != (i.TrashedAt != nil) {
		return errors.New("trashed timestamp must be set exactly when trashed")
	}
	if i.Owner != nil {
		for _, e := range i.Editors {
			if e.EmailAddress == i.Owner.EmailAddress {
				return errors.New("owner must not appear in the editor set")
			}
		}
	}
	return nil
}

// Create creates the item in the database. A fresh id is assigned if unset.
func (i *Item) Create(db *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}

	if err := validation.ValidateStruct(i,
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.ItemType, validation.Required,
			validation.In(ItemTypeDocument, ItemTypePresentation)),
		validation.Field(&i.OwnerID, validation.Required),
	); err != nil {
		return err
	}

	return db.
		Omit(clause.Associations).
		Create(&i).
		Error
}

// Get retrieves the item by id with owner and editors preloaded.
func (i *Item) Get(db *gorm.DB) error {
	if err := validation.ValidateStruct(i,
		validation.Field(&i.ID, validation.Required),
	); err != nil {
		return err
	}

	return db.
		Preload(clause.Associations).
		Where(Item{ID: i.ID}).
		First(&i).
		Error
}

// GetBody deserializes the item's body payload.
func (i *Item) GetBody() (*content.Body, error) {
	return content.Unmarshal([]byte(i.Body))
}

// SetBody serializes the body payload into the item.
func (i *Item) SetBody(b *content.Body) error {
	raw, err := b.Marshal()
	if err != nil {
		return err
	}
	i.Body = JSON(raw)
	return nil
}

// OwnerEmail returns the owner's email address, or empty when the owner
// association is not loaded.
func (i *Item) OwnerEmail() string {
	if i.Owner == nil {
		return ""
	}
	return i.Owner.EmailAddress
}

// HasEditor reports whether email is a member of the loaded editor set.
func (i *Item) HasEditor(email string) bool {
	for _, e := range i.Editors {
		if e.EmailAddress == email {
			return true
		}
	}
	return false
}

// FindActiveItems returns all untrashed items the user owns or edits,
// most recently updated first.
func FindActiveItems(db *gorm.DB, userID uint) ([]Item, error) {
	var items []Item
	err := db.
		Preload(clause.Associations).
		Where("trashed = ?", false).
		Where(
			"owner_id = ? OR id IN (SELECT item_id FROM item_editors WHERE user_id = ?)",
			userID, userID,
		).
		Order("updated_at DESC").
		Find(&items).
		Error
	return items, err
}

// FindTrashedItems returns all trashed items owned by the user, most recently
// trashed first. Editors never see another owner's trash.
func FindTrashedItems(db *gorm.DB, userID uint) ([]Item, error) {
	var items []Item
	err := db.
		Preload(clause.Associations).
		Where("trashed = ? AND owner_id = ?", true, userID).
		Order("trashed_at DESC").
		Find(&items).
		Error
	return items, err
}
