package persistence

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/veltapack/masterdata/modules/masterdata/domain/codespec"
	"github.com/veltapack/masterdata/pkg/composables"
	"github.com/veltapack/masterdata/pkg/metrics"
	"github.com/veltapack/masterdata/pkg/serrors"
)

var (
	// ErrCodeTaken signals an allocation conflict: a concurrent allocator
	// reserved the candidate first. Internal to the retry loop, never
	// surfaced to callers.
	ErrCodeTaken = errors.New("candidate code already taken")

	// ErrAllocationExhausted is surfaced after the retry bound. Retryable by
	// the caller, not a permanent failure.
	ErrAllocationExhausted = serrors.NewError(
		"ALLOCATION_EXHAUSTED",
		"code allocation retries exhausted",
		"Codes.AllocationExhausted",
	)
)

// InsertFunc persists the owning record under the candidate code. It runs
// inside a nested transaction so a uniqueness rejection does not poison the
// enclosing transaction.
type InsertFunc func(ctx context.Context, code string) error

// CodeStore is the storage surface the allocator needs: scan existing codes
// under a prefix and attempt an insert whose code column carries a uniqueness
// constraint. That constraint is the sole concurrency guard; there is no
// in-process lock.
type CodeStore interface {
	ExistingCodes(ctx context.Context, prefix string) ([]string, error)
	TryInsert(ctx context.Context, code string, insert InsertFunc) error
}

// Allocator produces the next sequential code for a CodeSpec within the
// currently bound partition. Codes are unique and monotonic non-decreasing;
// gaps are allowed when a retry loses its race.
type Allocator struct {
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

type AllocatorOption func(*Allocator)

func WithMaxAttempts(n int) AllocatorOption {
	return func(a *Allocator) {
		a.maxAttempts = n
	}
}

func WithBackoff(d time.Duration) AllocatorOption {
	return func(a *Allocator) {
		a.backoff = d
	}
}

func WithClock(now func() time.Time) AllocatorOption {
	return func(a *Allocator) {
		a.now = now
	}
}

func NewAllocator(opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		maxAttempts: 5,
		backoff:     25 * time.Millisecond,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate computes max(existing)+1 under the spec's prefix, formats it, and
// lets insert reserve it under the uniqueness constraint. On conflict it
// rescans and retries with randomized backoff, up to the attempt bound.
func (a *Allocator) Allocate(ctx context.Context, spec codespec.Spec, store CodeStore, insert InsertFunc) (string, error) {
	prefix := spec.PrefixAt(a.now())

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		metrics.AllocationAttempts.WithLabelValues(spec.Entity).Inc()

		candidate, err := a.nextCandidate(ctx, spec, store, prefix)
		if err != nil {
			return "", err
		}

		err = store.TryInsert(ctx, candidate, insert)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return "", err
		}

		metrics.AllocationConflicts.WithLabelValues(spec.Entity).Inc()
		composables.UseLogger(ctx).
			WithField("entity", spec.Entity).
			WithField("code", candidate).
			Debug("code allocation conflict, retrying")

		if err := a.wait(ctx, attempt); err != nil {
			return "", err
		}
	}

	metrics.AllocationExhausted.WithLabelValues(spec.Entity).Inc()
	return "", fmt.Errorf("%w: entity %s", ErrAllocationExhausted, spec.Entity)
}

func (a *Allocator) nextCandidate(ctx context.Context, spec codespec.Spec, store CodeStore, prefix string) (string, error) {
	codes, err := store.ExistingCodes(ctx, prefix)
	if err != nil {
		// Transient scan failure: fall back to a timestamp-derived code for
		// specs that allow it. The fallback is still unique-checked by the
		// insert, never trusted blindly.
		if fallback, ok := spec.Fallback(a.now()); ok {
			metrics.AllocationFallbacks.WithLabelValues(spec.Entity).Inc()
			composables.UseLogger(ctx).
				WithField("entity", spec.Entity).
				WithError(err).
				Warn("code scan failed, using timestamp fallback")
			return fallback, nil
		}
		return "", err
	}

	max := 0
	for _, code := range codes {
		n, ok := spec.Parse(code, prefix)
		if !ok {
			continue
		}
		if n > max {
			max = n
		}
	}
	return spec.Format(prefix, max+1)
}

func (a *Allocator) wait(ctx context.Context, attempt int) error {
	if a.backoff <= 0 {
		return ctx.Err()
	}
	d := a.backoff * time.Duration(attempt+1)
	d = d/2 + rand.N(d/2+1)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
