// Package cleanup reconciles stored resource files against the references
// held by persisted item bodies.
//
// Reconciliation runs after the corresponding item mutation has committed:
// a resource may briefly outlive its last reference, but is never deleted
// while a persisted item still references it.
package cleanup

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/scribe/pkg/content"
	"github.com/hashicorp-forge/scribe/pkg/storage"
)

// Reconciler deletes orphaned resource files.
type Reconciler struct {
	storage storage.Storage
	log     hclog.Logger

	// maxRetries bounds the per-resource delete attempts.
	maxRetries uint64
	// initialInterval seeds the exponential backoff between attempts.
	initialInterval time.Duration
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithMaxRetries sets the per-resource delete retry bound.
func WithMaxRetries(n uint64) Option {
	return func(r *Reconciler) { r.maxRetries = n }
}

// WithInitialInterval sets the initial backoff interval between attempts.
func WithInitialInterval(d time.Duration) Option {
	return func(r *Reconciler) { r.initialInterval = d }
}

// NewReconciler returns a Reconciler deleting through the given storage.
func NewReconciler(s storage.Storage, log hclog.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		storage:         s,
		log:             log,
		maxRetries:      3,
		initialInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile deletes every resource in oldRefs that is absent from newRefs.
// A resource present in both sets is never deleted, and deleting an
// already-absent resource is a silent no-op, so reconciliation is idempotent:
// a crash mid-pass is resolved by retrying over the same item.
//
// Returned errors aggregate the deletes that exhausted their retries; callers
// log and swallow them, since a failed delete cannot invalidate the
// already-committed item mutation.
func (r *Reconciler) Reconcile(ctx context.Context, oldRefs, newRefs content.RefSet) error {
	orphaned := oldRefs.Diff(newRefs)
	if len(orphaned) == 0 {
		return nil
	}

	var result *multierror.Error
	for id := range orphaned {
		if err := r.deleteWithRetry(ctx, id); err != nil {
			r.log.Error("error deleting orphaned resource",
				"resource_id", id,
				"error", err,
			)
			result = multierror.Append(result, err)
			continue
		}
		r.log.Debug("deleted orphaned resource", "resource_id", id)
	}
	return result.ErrorOrNil()
}

func (r *Reconciler) deleteWithRetry(ctx context.Context, id string) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialInterval
	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, r.maxRetries), ctx)

	return backoff.Retry(func() error {
		return r.storage.Delete(ctx, id)
	}, policy)
}
