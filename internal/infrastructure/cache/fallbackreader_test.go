package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise/internal/shared/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	tracked map[string]map[string]bool

	getErr error
	setErr error

	gets int
	sets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:    make(map[string][]byte),
		tracked: make(map[string]map[string]bool),
	}
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *fakeStore) TrackKey(ctx context.Context, ownerID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracked[ownerID] == nil {
		s.tracked[ownerID] = make(map[string]bool)
	}
	s.tracked[ownerID][key] = true
	return nil
}

func (s *fakeStore) InvalidateOwner(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.tracked[ownerID] {
		delete(s.data, k)
	}
	delete(s.tracked, ownerID)
	return nil
}

func fastOpts() *Options {
	return &Options{
		Retries:         3,
		Backoff:         []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		SupplierTimeout: time.Second,
	}
}

func testReader(store Store) *FallbackReader {
	return NewFallbackReader(store, logger.NewLogger(), Options{})
}

type countingSupplier struct {
	mu       sync.Mutex
	calls    int
	failures int
	value    []string
}

func (c *countingSupplier) get(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls <= c.failures {
		return nil, errors.New("connection pool exhausted")
	}
	return c.value, nil
}

func (c *countingSupplier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRead_CacheHitShortCircuits(t *testing.T) {
	store := newFakeStore()
	cached, _ := json.Marshal([]string{"algebra", "geometry"})
	store.data["subjects:active"] = cached

	supplier := &countingSupplier{value: []string{"fresh"}}
	result, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, []string{"algebra", "geometry"}, result.Data)
	assert.Empty(t, result.Warning)
	assert.Equal(t, 0, supplier.callCount(), "supplier must not run on a cache hit")
}

func TestRead_MissPopulatesCache(t *testing.T) {
	store := newFakeStore()
	supplier := &countingSupplier{value: []string{"algebra"}}

	result, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, SourceDatabase, result.Source)
	assert.Equal(t, []string{"algebra"}, result.Data)
	assert.Equal(t, 1, supplier.callCount())

	var written []string
	require.NoError(t, json.Unmarshal(store.data["subjects:active"], &written))
	assert.Equal(t, []string{"algebra"}, written)
}

func TestRead_RetryThenSucceed(t *testing.T) {
	store := newFakeStore()
	supplier := &countingSupplier{failures: 1, value: []string{"algebra"}}

	result, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, SourceDatabase, result.Source)
	assert.Equal(t, 2, supplier.callCount(), "one failure plus one success")
}

func TestRead_StaleFallback(t *testing.T) {
	store := newFakeStore()
	supplier := &countingSupplier{failures: 100}

	// A prior entry exists under the same key; the failing refresh must
	// fall back to it rather than surface an error.
	stale, _ := json.Marshal([]string{"algebra"})
	failingStore := &flakyGetStore{fakeStore: store, failFirstGets: 1}
	store.data["subjects:active"] = stale

	result, err := Read(context.Background(), testReader(failingStore), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, SourceStaleCache, result.Source)
	assert.Equal(t, []string{"algebra"}, result.Data)
	assert.Equal(t, StaleWarning, result.Warning)
	assert.Equal(t, 4, supplier.callCount(), "initial attempt plus three retries")
}

func TestRead_HardFailure(t *testing.T) {
	store := newFakeStore()
	supplier := &countingSupplier{failures: 100}

	_, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.Error(t, err)
	var unavailable *BackendUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "subjects:active", unavailable.Key)
	assert.Equal(t, 4, unavailable.Attempts)
	assert.True(t, unavailable.FallbackAttempted)
}

func TestRead_StaleFallbackDisabled(t *testing.T) {
	store := newFakeStore()
	stale, _ := json.Marshal([]string{"algebra"})
	store.data["subjects:active"] = stale
	supplier := &countingSupplier{failures: 100}

	opts := fastOpts()
	opts.DisableStaleFallback = true

	// Force the first lookup to miss so the supplier path runs.
	flaky := &flakyGetStore{fakeStore: store, failFirstGets: 1}
	_, err := Read(context.Background(), testReader(flaky), "subjects:active", time.Minute, supplier.get, opts)

	var unavailable *BackendUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, unavailable.FallbackAttempted)
}

func TestRead_CacheBackendFailureFallsThroughToSupplier(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis connection refused")
	store.setErr = errors.New("redis connection refused")
	supplier := &countingSupplier{value: []string{"algebra"}}

	result, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.NoError(t, err, "cache unavailability must never block the supplier path")
	assert.Equal(t, SourceDatabase, result.Source)
	assert.Equal(t, 1, supplier.callCount())
}

func TestRead_NoNegativeCaching(t *testing.T) {
	store := newFakeStore()
	supplier := &countingSupplier{failures: 100}

	_, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())
	require.Error(t, err)

	_, ok := store.data["subjects:active"]
	assert.False(t, ok, "failures must not be written to the cache")
}

func TestRead_CorruptEntryDroppedAndRefetched(t *testing.T) {
	store := newFakeStore()
	store.data["subjects:active"] = []byte("{not json")
	supplier := &countingSupplier{value: []string{"algebra"}}

	result, err := Read(context.Background(), testReader(store), "subjects:active", time.Minute, supplier.get, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, SourceDatabase, result.Source)
	assert.Equal(t, 1, supplier.callCount())
}

func TestRead_RejectsInvalidArguments(t *testing.T) {
	store := newFakeStore()
	supplier := &countingSupplier{value: []string{"x"}}

	_, err := Read(context.Background(), testReader(store), "", time.Minute, supplier.get, nil)
	assert.Error(t, err)

	_, err = Read(context.Background(), testReader(store), "k", 0, supplier.get, nil)
	assert.Error(t, err)

	assert.Equal(t, 0, supplier.callCount())
}

func TestRead_SupplierTimeoutTreatedAsFailure(t *testing.T) {
	store := newFakeStore()
	stale, _ := json.Marshal([]string{"algebra"})

	hung := func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	opts := fastOpts()
	opts.Retries = 1
	opts.SupplierTimeout = 5 * time.Millisecond

	flaky := &flakyGetStore{fakeStore: store, failFirstGets: 1}
	store.data["subjects:active"] = stale

	result, err := Read(context.Background(), testReader(flaky), "subjects:active", time.Minute, hung, opts)

	require.NoError(t, err)
	assert.Equal(t, SourceStaleCache, result.Source)
}

func TestRead_ConcurrentMissesBothPopulate(t *testing.T) {
	store := newFakeStore()

	var wg sync.WaitGroup
	reader := testReader(store)
	results := make([]Result[[]string], 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			supplier := func(ctx context.Context) ([]string, error) {
				return []string{fmt.Sprintf("value-%d", i)}, nil
			}
			results[i], errs[i] = Read(context.Background(), reader, "subjects:active", time.Minute, supplier, fastOpts())
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Last writer wins; the surviving entry must be one complete value.
	var written []string
	require.NoError(t, json.Unmarshal(store.data["subjects:active"], &written))
	assert.Contains(t, [][]string{{"value-0"}, {"value-1"}}, written)
}

// flakyGetStore makes the first N Gets miss, to model a refresh of an
// expired key whose value still exists for the fallback probe.
type flakyGetStore struct {
	*fakeStore
	mu            sync.Mutex
	failFirstGets int
}

func (s *flakyGetStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	if s.failFirstGets > 0 {
		s.failFirstGets--
		s.mu.Unlock()
		return nil, false, nil
	}
	s.mu.Unlock()
	return s.fakeStore.Get(ctx, key)
}
