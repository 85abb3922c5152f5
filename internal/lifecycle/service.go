// Package lifecycle implements the document lifecycle core: item operations,
// the exclusive-edit lock manager, the trash lifecycle manager, the clone
// service and the sharing manager.
//
// The core is stateless between calls. Every mutation is an atomic
// read-modify-write keyed by item id, expressed as a conditional UPDATE whose
// stored precondition must still hold; two concurrent requests for the same
// item serialize at the storage layer, never in application memory.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/scribe/internal/cleanup"
	"github.com/hashicorp-forge/scribe/pkg/acl"
	"github.com/hashicorp-forge/scribe/pkg/content"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

// Service carries the lifecycle core's collaborators.
type Service struct {
	db         *gorm.DB
	log        hclog.Logger
	reconciler *cleanup.Reconciler
}

// NewService returns a lifecycle service over the given store.
func NewService(db *gorm.DB, log hclog.Logger, reconciler *cleanup.Reconciler) *Service {
	return &Service{
		db:         db,
		log:        log,
		reconciler: reconciler,
	}
}

// getItem loads an item with its associations, mapping a missing record to
// ErrNotFound.
func (s *Service) getItem(id string) (*models.Item, error) {
	item := models.Item{ID: id}
	if err := item.Get(s.db); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting item: %w", err)
	}
	return &item, nil
}

// readableBy checks the listing/read contract: trashed items are readable by
// their owner only, so editors and the public lose access the moment an item
// is trashed.
func readableBy(item *models.Item, cap acl.Capability) bool {
	if !cap.CanRead() {
		return false
	}
	if item.Trashed && cap != acl.Owner {
		return false
	}
	return true
}

// Create creates a new item owned by owner. The item starts active, unlocked
// and untrashed.
func (s *Service) Create(
	ctx context.Context,
	owner string,
	itemType models.ItemType,
	title string,
	body *content.Body,
) (*models.Item, error) {
	if owner == acl.Anonymous {
		return nil, ErrPermissionDenied
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}
	if err := body.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if string(body.Kind) != string(itemType) {
		return nil, fmt.Errorf(
			"%w: body kind %q does not match item type %q",
			ErrValidation, body.Kind, itemType)
	}

	user := models.User{EmailAddress: owner}
	if err := user.FirstOrCreate(s.db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	item := models.Item{
		ItemType: itemType,
		Title:    title,
		OwnerID:  user.ID,
	}
	if err := item.SetBody(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := item.Create(s.db); err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}
	item.Owner = &user

	s.log.Info("created item",
		"item_id", item.ID,
		"item_type", item.ItemType,
		"owner", owner,
	)
	return &item, nil
}

// Get returns the item if the requester may read it.
func (s *Service) Get(ctx context.Context, id, requester string) (*models.Item, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	if !readableBy(item, acl.Evaluate(item, requester)) {
		return nil, ErrPermissionDenied
	}
	return item, nil
}

// ItemPatch is the set of item fields a content update may change. Nil
// fields are left untouched.
type ItemPatch struct {
	Title *string       `json:"title,omitempty"`
	Body  *content.Body `json:"body,omitempty"`
}

// Update applies the patch. The requester must hold write capability and the
// advisory lock must be free or held by the requester; a trashed item rejects
// updates. When the body changes, resources dropped by the new body are
// reconciled after the mutation commits.
func (s *Service) Update(
	ctx context.Context, id, requester string, patch ItemPatch,
) (*models.Item, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	if !acl.Evaluate(item, requester).CanWrite() {
		return nil, ErrPermissionDenied
	}

	if patch.Title == nil && patch.Body == nil {
		return nil, fmt.Errorf("%w: empty patch", ErrValidation)
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}

	var oldRefs, newRefs content.RefSet
	if patch.Body != nil {
		if err := patch.Body.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if string(patch.Body.Kind) != string(item.ItemType) {
			return nil, fmt.Errorf(
				"%w: body kind %q does not match item type %q",
				ErrValidation, patch.Body.Kind, item.ItemType)
		}
		oldBody, err := item.GetBody()
		if err != nil {
			return nil, fmt.Errorf("error reading stored body: %w", err)
		}
		oldRefs = oldBody.References()
		newRefs = patch.Body.References()

		raw, err := patch.Body.Marshal()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		updates["body"] = models.JSON(raw)
	}

	// The update commits only if the item is still active and the lock is
	// free or ours.
	res := s.db.Model(&models.Item{}).
		Where("id = ? AND trashed = ? AND (lock_held = ? OR lock_holder = ?)",
			id, false, false, requester).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("error updating item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.classifyUpdateConflict(id)
	}

	if patch.Body != nil {
		// The new body is committed; dropping the orphaned resources now can
		// never be premature. Failures are logged and swallowed: reconciling
		// is idempotent and a later pass over the same item resolves them.
		if err := s.reconciler.Reconcile(ctx, oldRefs, newRefs); err != nil {
			s.log.Warn("resource reconciliation incomplete after update",
				"item_id", id,
				"error", err,
			)
		}
	}

	return s.getItem(id)
}

// classifyUpdateConflict re-reads the item to turn a zero-row conditional
// update into the right typed error.
func (s *Service) classifyUpdateConflict(id string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if item.Trashed {
		return ErrInvalidState
	}
	return ErrLockConflict
}

// List returns the requester's active items (owned or edited) or the
// requester's own trash.
func (s *Service) List(ctx context.Context, requester string, trashed bool) ([]models.Item, error) {
	if requester == acl.Anonymous {
		return nil, ErrPermissionDenied
	}

	user := models.User{EmailAddress: requester}
	if err := user.Get(s.db); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown users own nothing.
			return []models.Item{}, nil
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}

	if trashed {
		items, err := models.FindTrashedItems(s.db, user.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing trash: %w", err)
		}
		return items, nil
	}
	items, err := models.FindActiveItems(s.db, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return items, nil
}
