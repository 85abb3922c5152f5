package lifecycle

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/scribe/pkg/acl"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

// The advisory lock is cooperative: it prevents two collaborators from
// clobbering each other's in-progress edits, not a storage-transaction lock.
// It is re-entrant for the holder and never silently stolen. Both transitions
// are conditional UPDATEs so that concurrent requests landing on different
// workers serialize at the store.

// AcquireLock takes the exclusive-edit lock for requester. Acquiring a lock
// the requester already holds is an idempotent success; a lock held by
// another user fails with ErrLockConflict without changing the holder.
func (s *Service) AcquireLock(ctx context.Context, id, requester string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if !acl.Evaluate(item, requester).CanLock() {
		return ErrPermissionDenied
	}

	res := s.db.Model(&models.Item{}).
		Where("id = ? AND trashed = ? AND (lock_held = ? OR lock_holder = ?)",
			id, false, false, requester).
		Updates(map[string]interface{}{
			"lock_held":   true,
			"lock_holder": requester,
		})
	if res.Error != nil {
		return fmt.Errorf("error acquiring lock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		cur, err := s.getItem(id)
		if err != nil {
			return err
		}
		if cur.Trashed {
			return ErrInvalidState
		}
		return ErrLockConflict
	}

	s.log.Debug("acquired edit lock", "item_id", id, "holder", requester)
	return nil
}

// ReleaseLock releases the lock held by requester. Releasing an unlocked
// item is an idempotent success; a lock held by another user fails with
// ErrNotLockHolder. There is no owner override: the lock belongs to its
// holder alone.
func (s *Service) ReleaseLock(ctx context.Context, id, requester string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if !acl.Evaluate(item, requester).CanLock() {
		return ErrPermissionDenied
	}

	res := s.db.Model(&models.Item{}).
		Where("id = ? AND (lock_held = ? OR lock_holder = ?)",
			id, false, requester).
		Updates(map[string]interface{}{
			"lock_held":   false,
			"lock_holder": "",
		})
	if res.Error != nil {
		return fmt.Errorf("error releasing lock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.getItem(id); err != nil {
			return err
		}
		return ErrNotLockHolder
	}

	s.log.Debug("released edit lock", "item_id", id, "holder", requester)
	return nil
}
