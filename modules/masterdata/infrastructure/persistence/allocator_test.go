package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltapack/masterdata/modules/masterdata/domain/codespec"
)

// fakeCodeStore mirrors the contract of the pgx store: scans see committed
// codes, inserts are rejected when the code already exists. A mutex plays the
// role of the database's uniqueness constraint.
type fakeCodeStore struct {
	mu      sync.Mutex
	codes   map[string]bool
	scanErr error
}

func newFakeCodeStore(seed ...string) *fakeCodeStore {
	s := &fakeCodeStore{codes: map[string]bool{}}
	for _, code := range seed {
		s.codes[code] = true
	}
	return s
}

func (s *fakeCodeStore) ExistingCodes(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []string
	for code := range s.codes {
		if strings.HasPrefix(code, prefix) {
			out = append(out, code)
		}
	}
	return out, nil
}

func (s *fakeCodeStore) TryInsert(ctx context.Context, code string, insert InsertFunc) error {
	if err := insert(ctx, code); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes[code] {
		return ErrCodeTaken
	}
	s.codes[code] = true
	return nil
}

func (s *fakeCodeStore) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.codes))
	for code := range s.codes {
		out = append(out, code)
	}
	return out
}

// conflictStore rejects every insert, simulating a permanent race loser.
type conflictStore struct{}

func (conflictStore) ExistingCodes(context.Context, string) ([]string, error) {
	return []string{"SK00000001"}, nil
}

func (conflictStore) TryInsert(ctx context.Context, code string, insert InsertFunc) error {
	if err := insert(ctx, code); err != nil {
		return err
	}
	return ErrCodeTaken
}

func noopInsert(context.Context, string) error { return nil }

func TestAllocator_FirstCode(t *testing.T) {
	store := newFakeCodeStore()
	alloc := NewAllocator(WithBackoff(0))

	code, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.ColorCard), store, noopInsert)
	require.NoError(t, err)
	assert.Equal(t, "SK00000001", code)
}

func TestAllocator_NextAfterExisting(t *testing.T) {
	store := newFakeCodeStore("SK00000001", "SK00000009", "SK00000004")
	alloc := NewAllocator(WithBackoff(0))

	code, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.ColorCard), store, noopInsert)
	require.NoError(t, err)
	assert.Equal(t, "SK00000010", code)
}

func TestAllocator_SkipsMalformedCodes(t *testing.T) {
	store := newFakeCodeStore("SK0000000X", "SKLEGACY01", "SK00000005", "SK123")
	alloc := NewAllocator(WithBackoff(0))

	code, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.ColorCard), store, noopInsert)
	require.NoError(t, err)
	assert.Equal(t, "SK00000006", code)
}

func TestAllocator_ConcurrentUniqueCodes(t *testing.T) {
	const workers = 16

	store := newFakeCodeStore()
	spec := codespec.MustGet(codespec.Material)
	// a failed attempt implies another worker won that candidate, so
	// `workers` attempts always suffice for every worker to finish
	alloc := NewAllocator(WithMaxAttempts(workers), WithBackoff(time.Microsecond))

	var wg sync.WaitGroup
	results := make(chan string, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := alloc.Allocate(context.Background(), spec, store, noopInsert)
			if err != nil {
				errs <- err
				return
			}
			results <- code
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("allocation failed: %v", err)
	}

	seen := map[string]bool{}
	for code := range results {
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, workers)
}

func TestAllocator_TwoConcurrentCreatesAfterTen(t *testing.T) {
	seed := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		seed = append(seed, fmt.Sprintf("SK%08d", i))
	}
	store := newFakeCodeStore(seed...)
	spec := codespec.MustGet(codespec.ColorCard)
	alloc := NewAllocator(WithBackoff(time.Microsecond))

	var wg sync.WaitGroup
	results := make(chan string, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := alloc.Allocate(context.Background(), spec, store, noopInsert)
			if err != nil {
				errs <- err
				return
			}
			results <- code
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("allocation failed: %v", err)
	}
	got := map[string]bool{}
	for code := range results {
		got[code] = true
	}
	assert.Equal(t, map[string]bool{"SK00000011": true, "SK00000012": true}, got)
}

func TestAllocator_TenantIsolation(t *testing.T) {
	storeA := newFakeCodeStore("MT00000001", "MT00000002", "MT00000003", "MT00000004", "MT00000005")
	storeB := newFakeCodeStore()
	spec := codespec.MustGet(codespec.Material)
	alloc := NewAllocator(WithBackoff(0))

	var wg sync.WaitGroup
	var codeA, codeB string
	var errA, errB error
	wg.Add(2)
	go func() {
		defer wg.Done()
		codeA, errA = alloc.Allocate(context.Background(), spec, storeA, noopInsert)
	}()
	go func() {
		defer wg.Done()
		codeB, errB = alloc.Allocate(context.Background(), spec, storeB, noopInsert)
	}()
	wg.Wait()

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, "MT00000006", codeA)
	assert.Equal(t, "MT00000001", codeB)
}

func TestAllocator_Exhaustion(t *testing.T) {
	alloc := NewAllocator(WithMaxAttempts(3), WithBackoff(0))

	_, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.ColorCard), conflictStore{}, noopInsert)
	require.ErrorIs(t, err, ErrAllocationExhausted)
}

func TestAllocator_CancelledContext(t *testing.T) {
	store := newFakeCodeStore()
	alloc := NewAllocator(WithBackoff(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := alloc.Allocate(ctx, codespec.MustGet(codespec.ColorCard), store, noopInsert)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.all(), "cancelled allocation must leave no trace")

	// a subsequent allocation computes as if the cancelled attempt never happened
	code, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.ColorCard), store, noopInsert)
	require.NoError(t, err)
	assert.Equal(t, "SK00000001", code)
}

func TestAllocator_InsertErrorPropagates(t *testing.T) {
	store := newFakeCodeStore()
	alloc := NewAllocator(WithBackoff(0))
	boom := errors.New("constraint violated elsewhere")

	_, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.ColorCard), store, func(context.Context, string) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, store.all())
}

func TestAllocator_ScanFallback(t *testing.T) {
	store := newFakeCodeStore()
	store.scanErr = errors.New("transient scan failure")
	alloc := NewAllocator(WithBackoff(0))

	// material opts into the timestamp fallback; the code is still
	// unique-checked by the insert path
	code, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.Material), store, noopInsert)
	require.NoError(t, err)
	assert.Len(t, code, 10)
	assert.Equal(t, "MT", code[:2])
	assert.Contains(t, store.all(), code)

	// department has no fallback: the scan error surfaces
	_, err = alloc.Allocate(context.Background(), codespec.MustGet(codespec.Department), store, noopInsert)
	require.ErrorIs(t, err, store.scanErr)
}

func TestAllocator_YearPrefixScope(t *testing.T) {
	store := newFakeCodeStore("250009", "250010")
	clock := func() time.Time {
		return time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)
	}
	alloc := NewAllocator(WithBackoff(0), WithClock(clock))

	// last year's codes do not carry over: the sequence scope is the
	// computed prefix, not the whole table
	code, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.Employee), store, noopInsert)
	require.NoError(t, err)
	assert.Equal(t, "260001", code)
}

func TestAllocator_WidthOverflow(t *testing.T) {
	store := newFakeCodeStore("MT9999")
	alloc := NewAllocator(WithBackoff(0))

	_, err := alloc.Allocate(context.Background(), codespec.MustGet(codespec.Machine), store, noopInsert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow")
}

func TestAllocator_DeadlineBoundsRetries(t *testing.T) {
	alloc := NewAllocator(WithMaxAttempts(100), WithBackoff(20*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := alloc.Allocate(ctx, codespec.MustGet(codespec.ColorCard), conflictStore{}, noopInsert)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
