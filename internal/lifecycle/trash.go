package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/scribe/pkg/acl"
	"github.com/hashicorp-forge/scribe/pkg/content"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

// SoftDelete moves an active item to the trash. Owner only. Trashing an
// already-trashed item is an idempotent no-op. Lock and editor state are left
// untouched so a later restore round-trips them.
func (s *Service) SoftDelete(ctx context.Context, id, requester string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if !acl.Evaluate(item, requester).CanDelete() {
		return ErrPermissionDenied
	}

	now := time.Now()
	res := s.db.Model(&models.Item{}).
		Where("id = ? AND trashed = ?", id, false).
		Updates(map[string]interface{}{
			"trashed":    true,
			"trashed_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("error trashing item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Already trashed; idempotent.
		if _, err := s.getItem(id); err != nil {
			return err
		}
		return nil
	}

	s.log.Info("trashed item", "item_id", id, "owner", requester)
	return nil
}

// Restore moves a trashed item back to active. Owner only. Restoring an
// active item is an idempotent no-op.
func (s *Service) Restore(ctx context.Context, id, requester string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if !acl.Evaluate(item, requester).CanDelete() {
		return ErrPermissionDenied
	}

	res := s.db.Model(&models.Item{}).
		Where("id = ? AND trashed = ?", id, true).
		Updates(map[string]interface{}{
			"trashed":    false,
			"trashed_at": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("error restoring item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.getItem(id); err != nil {
			return err
		}
		return nil
	}

	s.log.Info("restored item", "item_id", id, "owner", requester)
	return nil
}

// PurgeOne permanently removes a trashed item and every resource its body
// referenced. Owner only. Purge is never reachable from the active state:
// an active item fails with ErrInvalidState and is left unchanged.
func (s *Service) PurgeOne(ctx context.Context, id, requester string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if !acl.Evaluate(item, requester).CanDelete() {
		return ErrPermissionDenied
	}
	if !item.Trashed {
		return fmt.Errorf("%w: item is not in the trash", ErrInvalidState)
	}

	body, err := item.GetBody()
	if err != nil {
		return fmt.Errorf("error reading stored body: %w", err)
	}
	refs := body.References()

	// Remove the item first; orphaned files after a crash are cleaned up by a
	// later pass, but a resource is never deleted while a persisted item
	// still references it.
	if err := s.deleteItems(id); err != nil {
		return err
	}

	if err := s.reconciler.Reconcile(ctx, refs, content.RefSet{}); err != nil {
		s.log.Warn("resource reconciliation incomplete after purge",
			"item_id", id,
			"error", err,
		)
	}

	s.log.Info("purged item", "item_id", id, "owner", requester)
	return nil
}

// PurgeAll purges every trashed item owned by requester exactly once and
// returns the number purged. The cascading resource deletion is a single
// batched diff-and-delete pass over the union of all referenced resources.
func (s *Service) PurgeAll(ctx context.Context, requester string) (int, error) {
	if requester == acl.Anonymous {
		return 0, ErrPermissionDenied
	}

	user := models.User{EmailAddress: requester}
	if err := user.Get(s.db); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown users own no trash.
			return 0, nil
		}
		return 0, fmt.Errorf("error resolving user: %w", err)
	}

	items, err := models.FindTrashedItems(s.db, user.ID)
	if err != nil {
		return 0, fmt.Errorf("error listing trash: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	refs := content.RefSet{}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
		body, err := item.GetBody()
		if err != nil {
			return 0, fmt.Errorf("error reading stored body: %w", err)
		}
		refs = refs.Union(body.References())
	}

	if err := s.deleteItems(ids...); err != nil {
		return 0, err
	}

	if err := s.reconciler.Reconcile(ctx, refs, content.RefSet{}); err != nil {
		s.log.Warn("resource reconciliation incomplete after purge-all",
			"owner", requester,
			"error", err,
		)
	}

	s.log.Info("purged trash", "owner", requester, "count", len(ids))
	return len(ids), nil
}

// deleteItems permanently removes items and their editor join rows, touching
// only rows still in the trash.
func (s *Service) deleteItems(ids ...string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("id IN ? AND trashed = ?", ids, true).
			Delete(&models.Item{})
		if res.Error != nil {
			return fmt.Errorf("error deleting items: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: item is not in the trash", ErrInvalidState)
		}
		if err := tx.
			Exec("DELETE FROM item_editors WHERE item_id IN ?", ids).
			Error; err != nil {
			return fmt.Errorf("error deleting editor entries: %w", err)
		}
		return nil
	})
}
