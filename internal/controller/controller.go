package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"bookstore-admin/internal/api"
	"bookstore-admin/internal/query"
	"bookstore-admin/pkg/cache"
)

// State of a controller's fetch lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Fetcher loads one page of a collection. api.Resource.List satisfies it.
type Fetcher[T any] func(ctx context.Context, q query.Query) (api.Page[T], error)

// Snapshot is the read-only view handed to the presentation layer.
// On a failed fetch Items and TotalCount keep the last successful result
// (stale-but-visible) while Err is set.
type Snapshot[T any] struct {
	State       State
	Items       []T
	TotalCount  int
	DisplayPage int
	Size        int
	Loading     bool
	Err         error
}

// Options configures a Controller.
type Options struct {
	// Resource names the collection; used as the cache key prefix.
	Resource string
	// PageSize is the initial page size.
	PageSize int
	// Debounce delays search input before it triggers a request.
	// Zero means no debouncing (useful in tests).
	Debounce time.Duration
	// Cache, when set, is consulted before fetching and invalidated on
	// every mutation. CacheTTL bounds how long pages stay cached.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Controller owns pagination, filter and sort state for one resource
// collection view and coordinates the fetch lifecycle around it.
//
// Ordering guarantee: the state always reflects the most recently ISSUED
// request. Every reload bumps a generation counter and cancels the previous
// in-flight context; a response is committed only if its generation is still
// current, so a slow stale response can never overwrite a newer one.
type Controller[T any] struct {
	mu sync.Mutex

	fetch Fetcher[T]
	id    func(T) string
	opts  Options

	pager Pager
	q     query.Query

	state State
	items []T
	total int
	err   error

	gen         uint64
	cancel      context.CancelFunc
	searchTimer *time.Timer
	closed      bool

	baseCtx    context.Context
	baseCancel context.CancelFunc

	onChange func(Snapshot[T])
}

// New builds a controller in the Idle state. id extracts the identity used
// by the differential mutation path. Call Load to issue the first fetch.
func New[T any](fetch Fetcher[T], id func(T) string, opts Options) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	baseCtx, baseCancel := context.WithCancel(context.Background())
	return &Controller[T]{
		fetch:      fetch,
		id:         id,
		opts:       opts,
		q:          query.New(opts.PageSize),
		state:      StateIdle,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
}

// OnChange registers the subscriber notified after every committed state
// change. The callback runs outside the controller lock and may call back
// into the controller.
func (c *Controller[T]) OnChange(fn func(Snapshot[T])) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load issues the initial fetch (page mount).
func (c *Controller[T]) Load() {
	c.mu.Lock()
	c.reloadLocked(true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetPage navigates to a one-based page number.
func (c *Controller[T]) SetPage(displayPage int) {
	c.mu.Lock()
	prev := c.pager.ServerPage()
	c.pager.SetDisplayPage(displayPage)
	if c.pager.ServerPage() == prev {
		c.mu.Unlock()
		return
	}
	c.q.Page = c.pager.ServerPage()
	c.reloadLocked(true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetPageSize changes the page size and returns to the first page: the old
// page offset is invalid under a different size.
func (c *Controller[T]) SetPageSize(size int) {
	c.mu.Lock()
	if size <= 0 || size == c.q.Size {
		c.mu.Unlock()
		return
	}
	c.q.Size = size
	c.resetPageLocked()
	c.reloadLocked(true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetSearch schedules a debounced search. Rapid successive calls supersede
// each other; only the last committed value triggers a request.
func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	if c.opts.Debounce <= 0 {
		c.commitSearchLocked(text)
		return // commitSearchLocked unlocks and emits
	}
	c.searchTimer = time.AfterFunc(c.opts.Debounce, func() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.commitSearchLocked(text)
	})
	c.mu.Unlock()
}

// commitSearchLocked applies a search value. Called with the lock held;
// unlocks and emits before returning.
func (c *Controller[T]) commitSearchLocked(text string) {
	if c.q.Search == text {
		c.mu.Unlock()
		return
	}
	c.q.Search = text
	c.resetPageLocked()
	c.reloadLocked(true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetFilter sets one server-side filter key (empty value removes it) and
// returns to the first page.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	if c.q.Filters[key] == value {
		c.mu.Unlock()
		return
	}
	c.q = c.q.WithFilter(key, value)
	c.resetPageLocked()
	c.reloadLocked(true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SetSort changes the sort field/direction and returns to the first page.
func (c *Controller[T]) SetSort(field, dir string) {
	c.mu.Lock()
	if c.q.Sort == field && c.q.Dir == dir {
		c.mu.Unlock()
		return
	}
	c.q.Sort = field
	c.q.Dir = dir
	c.resetPageLocked()
	c.reloadLocked(true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Refresh re-issues the current query, bypassing the cache.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	c.reloadLocked(false)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Retry re-issues the request after a failure. The error is cleared when
// the retried request succeeds.
func (c *Controller[T]) Retry() {
	c.Refresh()
}

// ApplyCreated reflects a successful create. The insert position under the
// active server-side ordering is unknowable locally, so this always
// refetches after invalidating the cache.
func (c *Controller[T]) ApplyCreated(item T) {
	c.invalidateCache()
	c.Refresh()
}

// ApplyUpdated reflects a successful update. The item is replaced in place
// when the active query has no server-side sort, search or filter; under
// any of those the update may reposition or exclude the item, which cannot
// be determined locally, so the controller falls back to a full refetch.
func (c *Controller[T]) ApplyUpdated(item T) {
	c.invalidateCache()

	c.mu.Lock()
	if c.q.Sort != "" || c.q.Search != "" || len(c.q.Filters) > 0 {
		c.reloadLocked(false)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return
	}
	updatedID := c.id(item)
	replaced := false
	for i := range c.items {
		if c.id(c.items[i]) == updatedID {
			c.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		// Item lives on another page; nothing visible changed.
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// ApplyDeleted reflects a successful delete by splicing the item out of
// local state without a refetch. Falls back to a refetch when the item is
// not on the current page or when removing it empties a non-first page.
func (c *Controller[T]) ApplyDeleted(id string) {
	c.invalidateCache()

	c.mu.Lock()
	idx := -1
	for i := range c.items {
		if c.id(c.items[i]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.reloadLocked(false)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return
	}

	c.items = append(c.items[:idx], c.items[idx+1:]...)
	if c.total > 0 {
		c.total--
	}
	if len(c.items) == 0 && c.pager.ServerPage() > 0 {
		// Page emptied out; step back one page and refetch.
		c.pager.SetDisplayPage(c.pager.DisplayPage() - 1)
		c.q.Page = c.pager.ServerPage()
		c.reloadLocked(false)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Close cancels any outstanding fetch and pending debounce. No state change
// is committed after Close (page unmount).
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.baseCancel()
}

// resetPageLocked returns to the first page.
func (c *Controller[T]) resetPageLocked() {
	c.pager.Reset()
	c.q.Page = 0
}

// reloadLocked supersedes any in-flight request and starts a new fetch for
// the current query. Caller holds the lock and emits afterwards.
func (c *Controller[T]) reloadLocked(useCache bool) {
	if c.closed {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.state = StateLoading
	q := c.q

	go c.run(ctx, gen, q, useCache)
}

func (c *Controller[T]) run(ctx context.Context, gen uint64, q query.Query, useCache bool) {
	if useCache && c.opts.Cache != nil {
		var page api.Page[T]
		found, err := c.opts.Cache.Get(ctx, q.CacheKey(c.opts.Resource), &page)
		if err != nil {
			log.Debug().Err(err).Str("resource", c.opts.Resource).Msg("query cache read failed")
		}
		if found {
			c.commit(gen, page, nil)
			return
		}
	}

	page, err := c.fetch(ctx, q)
	c.commit(gen, page, err)

	if err == nil && c.opts.Cache != nil {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.opts.Cache.Set(cacheCtx, q.CacheKey(c.opts.Resource), page, c.opts.CacheTTL); err != nil {
			log.Debug().Err(err).Str("resource", c.opts.Resource).Msg("query cache write failed")
		}
	}
}

// commit applies a fetch result unless it was superseded by a newer request
// or the controller closed in the meantime.
func (c *Controller[T]) commit(gen uint64, page api.Page[T], err error) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}

	if err != nil {
		// Keep prior items/total visible alongside the error.
		c.state = StateError
		c.err = err
	} else {
		c.state = StateSuccess
		c.err = nil
		c.items = page.Items
		c.total = page.TotalCount
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// invalidateCache drops every cached page of this resource. Runs before the
// differential update so a later cache read cannot resurrect pre-mutation
// state.
func (c *Controller[T]) invalidateCache() {
	if c.opts.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.opts.Cache.DeletePattern(ctx, c.opts.Resource+":*"); err != nil {
		log.Debug().Err(err).Str("resource", c.opts.Resource).Msg("query cache invalidation failed")
	}
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		State:       c.state,
		Items:       items,
		TotalCount:  c.total,
		DisplayPage: c.pager.DisplayPage(),
		Size:        c.q.Size,
		Loading:     c.state == StateLoading,
		Err:         c.err,
	}
}

func (c *Controller[T]) emit(snap Snapshot[T]) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
