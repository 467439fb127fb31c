package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "prepwise/internal/shared/errors"
	"prepwise/internal/shared/logger"
)

// Source identifies where a read was served from.
type Source string

const (
	SourceCache      Source = "cache"
	SourceDatabase   Source = "database"
	SourceStaleCache Source = "stale_cache"
)

// StaleWarning is attached to results served from an expired-but-present
// cache entry after the authoritative read failed.
const StaleWarning = "Data may be stale due to connection issues"

// Result wraps a read value with its provenance.
type Result[T any] struct {
	Data    T
	Source  Source
	Warning string
}

// Options tunes a single read. Zero-valued fields fall back to defaults;
// stale fallback is on unless explicitly disabled.
type Options struct {
	// Retries is the number of supplier retries after the first failed
	// attempt.
	Retries int

	// Backoff holds the delay before each retry. When shorter than
	// Retries the last entry repeats.
	Backoff []time.Duration

	// SupplierTimeout bounds each supplier attempt. A hung connection
	// must not hang the request.
	SupplierTimeout time.Duration

	// DisableStaleFallback turns off the second cache lookup after
	// retries are exhausted.
	DisableStaleFallback bool
}

var defaultBackoff = []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second}

func (o *Options) withDefaults(base Options) Options {
	out := base
	if o != nil {
		if o.Retries > 0 {
			out.Retries = o.Retries
		}
		if len(o.Backoff) > 0 {
			out.Backoff = o.Backoff
		}
		if o.SupplierTimeout > 0 {
			out.SupplierTimeout = o.SupplierTimeout
		}
		out.DisableStaleFallback = o.DisableStaleFallback
	}
	if out.Retries <= 0 {
		out.Retries = 3
	}
	if len(out.Backoff) == 0 {
		out.Backoff = defaultBackoff
	}
	if out.SupplierTimeout <= 0 {
		out.SupplierTimeout = 8 * time.Second
	}
	return out
}

// BackendUnavailableError is returned when the supplier failed on every
// attempt and no stale cache entry could substitute. Callers decide the
// degraded default shape (e.g. an empty list).
type BackendUnavailableError struct {
	Key               string
	Attempts          int
	FallbackAttempted bool
	Err               error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable for key %s after %d attempts (stale fallback attempted: %t): %v",
		e.Key, e.Attempts, e.FallbackAttempted, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// FallbackReader wraps authoritative reads with a cache-first strategy,
// retry with backoff on transient failure and a stale-cache fallback when
// all retries fail. Every read path in the application goes through here
// so failure semantics stay identical across call sites.
type FallbackReader struct {
	store    Store
	logger   logger.Interface
	defaults Options
}

// NewFallbackReader creates a reader. The defaults apply to every read
// unless overridden per call.
func NewFallbackReader(store Store, logger logger.Interface, defaults Options) *FallbackReader {
	return &FallbackReader{
		store:    store,
		logger:   logger,
		defaults: defaults,
	}
}

// Store exposes the underlying cache store for invalidation and key
// tracking by mutation paths.
func (r *FallbackReader) Store() Store {
	return r.store
}

// Read returns the freshest available value for key. The supplier must be
// idempotent and side-effect free: it may run more than once and its
// result may be discarded.
//
// Lookup order: cache hit short-circuits; on miss the supplier runs with
// retry and per-attempt timeout; when every attempt fails the same key is
// probed again and an expired-but-present entry is served as stale. Cache
// backend failures are logged and degrade to miss/no-op so cache
// unavailability never blocks the supplier path. Failures are never
// cached.
func Read[T any](ctx context.Context, r *FallbackReader, key string, ttl time.Duration, supplier func(context.Context) (T, error), opts *Options) (Result[T], error) {
	var zero Result[T]

	if key == "" {
		return zero, fmt.Errorf("cache read requires a non-empty key")
	}
	if ttl <= 0 {
		return zero, fmt.Errorf("cache read requires a positive ttl, got %s", ttl)
	}

	o := opts.withDefaults(r.defaults)

	if value, ok := r.lookup(ctx, key); ok {
		var data T
		if err := json.Unmarshal(value, &data); err != nil {
			// Corrupt entry: drop it and fall through to the supplier.
			r.logger.Warnw("discarding undecodable cache entry",
				"key", key,
				"error", err,
			)
			_ = r.store.Delete(ctx, key)
		} else {
			return Result[T]{Data: data, Source: SourceCache}, nil
		}
	}

	maxAttempts := 1 + o.Retries
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := runSupplier(ctx, o.SupplierTimeout, supplier)
		if err == nil {
			r.populate(ctx, key, ttl, data)
			return Result[T]{Data: data, Source: SourceDatabase}, nil
		}

		// Domain errors (not found, validation) are answers, not
		// transient failures: no retry, no stale fallback, no caching.
		if apperrors.IsAppError(err) {
			return zero, err
		}

		lastErr = err
		r.logger.Warnw("authoritative read failed",
			"key", key,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err,
		)

		if ctx.Err() != nil {
			break
		}
		if attempt < maxAttempts {
			if err := sleep(ctx, backoffFor(o.Backoff, attempt)); err != nil {
				break
			}
		}
	}

	if !o.DisableStaleFallback {
		// Same key, not a separate stale namespace: a prior entry may
		// still be present if this read was a refresh of an existing key.
		if value, ok := r.lookup(ctx, key); ok {
			var data T
			if err := json.Unmarshal(value, &data); err == nil {
				r.logger.Warnw("serving stale cache after backend failure",
					"key", key,
					"error", lastErr,
				)
				return Result[T]{Data: data, Source: SourceStaleCache, Warning: StaleWarning}, nil
			}
		}
	}

	return zero, &BackendUnavailableError{
		Key:               key,
		Attempts:          maxAttempts,
		FallbackAttempted: !o.DisableStaleFallback,
		Err:               lastErr,
	}
}

// lookup reads the cache, treating backend errors as a miss.
func (r *FallbackReader) lookup(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warnw("cache read failed, treating as miss",
			"key", key,
			"error", err,
		)
		return nil, false
	}
	return value, ok
}

// populate writes the supplier result, treating backend errors as no-op.
// Concurrent misses may both populate; last writer wins per key.
func (r *FallbackReader) populate(ctx context.Context, key string, ttl time.Duration, data any) {
	value, err := json.Marshal(data)
	if err != nil {
		r.logger.Warnw("failed to encode value for cache",
			"key", key,
			"error", err,
		)
		return
	}
	if err := r.store.Set(ctx, key, value, ttl); err != nil {
		r.logger.Warnw("cache write failed",
			"key", key,
			"error", err,
		)
	}
}

func runSupplier[T any](ctx context.Context, timeout time.Duration, supplier func(context.Context) (T, error)) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return supplier(attemptCtx)
}

func backoffFor(backoff []time.Duration, attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(backoff) {
		idx = len(backoff) - 1
	}
	return backoff[idx]
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
