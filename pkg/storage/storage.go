// Package storage defines the resource storage collaborator boundary.
//
// Resource files back the embedded references inside item bodies. They are
// written once on upload and mutated only by deletion, never overwritten in
// place.
package storage

import (
	"context"
	"io"
)

// Storage stores resource files keyed by opaque ids.
type Storage interface {
	// Upload stores the content and returns a new resource id usable inside
	// item bodies.
	Upload(ctx context.Context, r io.Reader) (string, error)

	// Open returns the content of a stored resource.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Exists reports whether a resource with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes a stored resource. Deleting an id with no matching file
	// is a silent no-op, never an error.
	Delete(ctx context.Context, id string) error
}
