package lifecycle

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/scribe/pkg/acl"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

// CopyMarker is appended to a cloned item's title.
const CopyMarker = " (copy)"

// Clone produces a brand-new, independent item from a readable source item:
// fresh id, owned by the requester, empty editor set, private, unlocked and
// untrashed regardless of the source item's state. The body is a
// structural deep copy whose resource references are shared with the source
// rather than duplicated on disk; the files stay shared until either item is
// independently edited.
func (s *Service) Clone(ctx context.Context, id, requester string) (*models.Item, error) {
	if requester == acl.Anonymous {
		return nil, ErrPermissionDenied
	}

	src, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	cap := acl.Evaluate(src, requester)
	if !cap.CanClone() || (src.Trashed && cap != acl.Owner) {
		return nil, ErrPermissionDenied
	}

	body, err := src.GetBody()
	if err != nil {
		return nil, fmt.Errorf("error reading source body: %w", err)
	}

	user := models.User{EmailAddress: requester}
	if err := user.FirstOrCreate(s.db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	clone := models.Item{
		ItemType: src.ItemType,
		Title:    src.Title + CopyMarker,
		OwnerID:  user.ID,
	}
	if err := clone.SetBody(body.DeepCopy()); err != nil {
		return nil, fmt.Errorf("error copying body: %w", err)
	}
	if err := clone.Create(s.db); err != nil {
		return nil, fmt.Errorf("error creating clone: %w", err)
	}
	clone.Owner = &user

	s.log.Info("cloned item",
		"source_id", src.ID,
		"item_id", clone.ID,
		"owner", requester,
	)
	return &clone, nil
}
