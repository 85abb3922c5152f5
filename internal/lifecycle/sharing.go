package lifecycle

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/scribe/pkg/acl"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

// AddEditors grants mutate capability to the given identities. Owner only.
// The insert is a set union: duplicates are no-ops, and an id equal to the
// owner is silently ignored rather than rejected.
func (s *Service) AddEditors(
	ctx context.Context, id, requester string, emails []string,
) (*models.Item, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	if !acl.Evaluate(item, requester).CanShare() {
		return nil, ErrPermissionDenied
	}

	for _, email := range emails {
		if email == item.OwnerEmail() || email == "" {
			continue
		}
		user := models.User{EmailAddress: email}
		if err := user.FirstOrCreate(s.db); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := s.db.
			Model(item).
			Association("Editors").
			Append(&user); err != nil {
			return nil, fmt.Errorf("error adding editor: %w", err)
		}
	}

	s.log.Info("updated editors", "item_id", id, "added", len(emails))
	return s.getItem(id)
}

// RemoveEditors revokes mutate capability from the given identities. Owner
// only. Removing an identity that is not an editor is a no-op.
func (s *Service) RemoveEditors(
	ctx context.Context, id, requester string, emails []string,
) (*models.Item, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	if !acl.Evaluate(item, requester).CanShare() {
		return nil, ErrPermissionDenied
	}

	for _, email := range emails {
		user := models.User{EmailAddress: email}
		if err := user.Get(s.db); err != nil {
			continue
		}
		if err := s.db.
			Model(item).
			Association("Editors").
			Delete(&user); err != nil {
			return nil, fmt.Errorf("error removing editor: %w", err)
		}
	}

	s.log.Info("updated editors", "item_id", id, "removed", len(emails))
	return s.getItem(id)
}

// SetPublic changes the public-visibility flag. Owner only. Public
// visibility applies to documents, so publishing a presentation fails with
// ErrValidation; publishing a trashed item fails with ErrInvalidState;
// unpublishing always succeeds.
func (s *Service) SetPublic(
	ctx context.Context, id, requester string, public bool,
) (*models.Item, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	if !acl.Evaluate(item, requester).CanShare() {
		return nil, ErrPermissionDenied
	}
	if public && item.ItemType != models.ItemTypeDocument {
		return nil, fmt.Errorf(
			"%w: only documents can be public", ErrValidation)
	}

	if public {
		res := s.db.Model(&models.Item{}).
			Where("id = ? AND trashed = ?", id, false).
			Update("is_public", true)
		if res.Error != nil {
			return nil, fmt.Errorf("error publishing item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if _, err := s.getItem(id); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf(
				"%w: trashed items cannot be public", ErrInvalidState)
		}
	} else {
		if err := s.db.Model(&models.Item{}).
			Where("id = ?", id).
			Update("is_public", false).
			Error; err != nil {
			return nil, fmt.Errorf("error unpublishing item: %w", err)
		}
	}

	s.log.Info("changed visibility", "item_id", id, "public", public)
	return s.getItem(id)
}
