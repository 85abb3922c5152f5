// Package acl computes a requester's capability over an item.
//
// Evaluation is a pure function of the item record and the requester
// identity; it performs no I/O and holds no state, so it can run on any
// worker without coordination.
package acl

import "github.com/hashicorp-forge/scribe/pkg/models"

// Anonymous is the identity of an unauthenticated requester.
const Anonymous = ""

// Capability is the operation set a requester may perform over an item.
// Higher values strictly include the permissions of lower ones except where
// noted on the helper methods.
type Capability int

const (
	// None permits nothing; every operation fails with permission denied.
	None Capability = iota

	// PublicViewer is granted to any requester, anonymous included, on a
	// public untrashed document. Read only, never lock-gated. The public
	// flag carries no capability on presentations.
	PublicViewer

	// Editor may read, write and clone, but cannot delete, change the editor
	// set or visibility, or clear another holder's lock.
	Editor

	// Owner holds every permission: read, write, delete, trash and restore,
	// editor and visibility changes, clone, lock and unlock.
	Owner
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case Owner:
		return "owner"
	case Editor:
		return "editor"
	case PublicViewer:
		return "public-viewer"
	default:
		return "none"
	}
}

// Evaluate computes the requester's capability over the item, in priority
// order: owner, editor, public viewer, none. The item's owner and editor
// associations must be loaded.
func Evaluate(item *models.Item, requester string) Capability {
	if requester != Anonymous {
		if item.OwnerEmail() == requester {
			return Owner
		}
		if item.HasEditor(requester) {
			return Editor
		}
	}
	if item.IsPublic && !item.Trashed && item.ItemType == models.ItemTypeDocument {
		return PublicViewer
	}
	return None
}

// CanRead reports whether the capability permits reading the item.
func (c Capability) CanRead() bool { return c >= PublicViewer }

// CanWrite reports whether the capability permits mutating the item's
// content. Writes are additionally gated by the advisory lock.
func (c Capability) CanWrite() bool { return c >= Editor }

// CanClone reports whether the capability permits cloning the item. Cloning
// follows read capability: anyone who can read an item may take an
// independent copy of it.
func (c Capability) CanClone() bool { return c >= PublicViewer }

// CanLock reports whether the capability permits acquiring the advisory lock.
func (c Capability) CanLock() bool { return c >= Editor }

// CanDelete reports whether the capability permits trash transitions and
// permanent removal.
func (c Capability) CanDelete() bool { return c == Owner }

// CanShare reports whether the capability permits changing the editor set or
// the public-visibility flag.
func (c Capability) CanShare() bool { return c == Owner }
