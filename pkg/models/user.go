package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User is a registered identity. Users are created lazily the first time an
// identity appears as an item owner or editor; the authentication collaborator
// is the source of truth for who the identity actually is.
type User struct {
	gorm.Model

	// EmailAddress is the user's verified email address, used as the public
	// identity everywhere in the API.
	EmailAddress string `gorm:"uniqueIndex;not null"`
}

// FirstOrCreate finds the user by email address, creating it if it does not
// exist, and fills in the receiver.
func (u *User) FirstOrCreate(db *gorm.DB) error {
	if err := validation.ValidateStruct(u,
		validation.Field(&u.EmailAddress, validation.Required, is.Email),
	); err != nil {
		return err
	}

	return db.
		Where(User{EmailAddress: u.EmailAddress}).
		FirstOrCreate(&u).
		Error
}

// Get retrieves the user by email address.
func (u *User) Get(db *gorm.DB) error {
	if err := validation.ValidateStruct(u,
		validation.Field(&u.EmailAddress, validation.Required),
	); err != nil {
		return err
	}

	return db.
		Preload(clause.Associations).
		Where(User{EmailAddress: u.EmailAddress}).
		First(&u).
		Error
}
