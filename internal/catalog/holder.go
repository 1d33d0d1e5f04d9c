package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/partkade/partsearch/pkg/types"
)

// DefaultSnapshotTTL is how long a snapshot is served before a background
// refresh is considered due
const DefaultSnapshotTTL = 5 * time.Minute

// Holder owns the current catalog snapshot. Reads are a single atomic pointer
// load; Refresh builds a new snapshot off to the side and swaps it in, so
// searches in flight keep the view they started with.
type Holder struct {
	loader Loader
	ttl    time.Duration
	log    zerolog.Logger

	current atomic.Pointer[Snapshot]
	version atomic.Int64

	refreshMu sync.Mutex // serializes concurrent Refresh calls
	onSwap    []func(*Snapshot)
}

// NewHolder creates a snapshot holder backed by the given loader. The holder
// starts empty; call Refresh once before serving searches.
func NewHolder(loader Loader, ttl time.Duration, log zerolog.Logger) *Holder {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Holder{
		loader: loader,
		ttl:    ttl,
		log:    log.With().Str("component", "catalog").Logger(),
	}
}

// OnSwap registers a hook invoked with every newly swapped-in snapshot.
// Hooks run on the refreshing goroutine; register before the first Refresh.
func (h *Holder) OnSwap(fn func(*Snapshot)) {
	h.onSwap = append(h.onSwap, fn)
}

// Current returns the active snapshot, or ErrCatalogUnavailable if no
// snapshot has been loaded yet
func (h *Holder) Current() (*Snapshot, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, types.ErrCatalogUnavailable
	}
	return snap, nil
}

// Stale reports whether the active snapshot is older than the TTL. An empty
// holder is always stale.
func (h *Holder) Stale() bool {
	snap := h.current.Load()
	if snap == nil {
		return true
	}
	return time.Since(snap.loadedAt) > h.ttl
}

// Refresh loads the catalog, builds a new snapshot, and swaps it in. On
// failure the previous snapshot stays active.
func (h *Holder) Refresh(ctx context.Context) error {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	started := time.Now()

	parts, err := h.loader.ListParts(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading parts: %v", types.ErrCatalogUnavailable, err)
	}
	synonyms, err := h.loader.ListSynonyms(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading synonyms: %v", types.ErrCatalogUnavailable, err)
	}

	snap := BuildSnapshot(h.version.Add(1), parts, synonyms)
	h.current.Store(snap)

	h.log.Info().
		Int64("version", snap.Version()).
		Int("parts", snap.PartCount()).
		Int("aliases", snap.AliasCount()).
		Dur("took", time.Since(started)).
		Msg("catalog snapshot refreshed")

	for _, fn := range h.onSwap {
		fn(snap)
	}
	return nil
}

// RefreshIfStale refreshes only when the TTL has elapsed. Returns whether a
// refresh was performed.
func (h *Holder) RefreshIfStale(ctx context.Context) (bool, error) {
	if !h.Stale() {
		return false, nil
	}
	if err := h.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Run refreshes on an interval until the context is canceled. Refresh
// failures are logged and retried on the next tick; the last good snapshot
// keeps serving.
func (h *Holder) Run(ctx context.Context) {
	ticker := time.NewTicker(h.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.Refresh(ctx); err != nil {
				h.log.Warn().Err(err).Msg("scheduled snapshot refresh failed")
			}
		}
	}
}
