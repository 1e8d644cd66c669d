package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-admin/internal/api"
	memcache "bookstore-admin/internal/infrastructure/cache"
	"bookstore-admin/internal/query"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func makeRows(n, offset int) []row {
	items := make([]row, n)
	for i := range items {
		items[i] = row{ID: fmt.Sprintf("id-%d", offset+i), Name: fmt.Sprintf("row %d", offset+i)}
	}
	return items
}

// fetchStub records every query it receives and answers via respond.
type fetchStub struct {
	mu      sync.Mutex
	queries []query.Query
	respond func(q query.Query) (api.Page[row], error)
}

func (f *fetchStub) fetch(ctx context.Context, q query.Query) (api.Page[row], error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	respond := f.respond
	f.mu.Unlock()
	return respond(q)
}

func (f *fetchStub) calls() []query.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]query.Query, len(f.queries))
	copy(out, f.queries)
	return out
}

func pageOf(q query.Query, total int) (api.Page[row], error) {
	n := q.Size
	if rem := total - q.Page*q.Size; rem < n {
		n = rem
	}
	if n < 0 {
		n = 0
	}
	return api.Page[row]{Items: makeRows(n, q.Page*q.Size), TotalCount: total, Page: q.Page, Size: q.Size}, nil
}

func collect(c *Controller[row]) <-chan Snapshot[row] {
	ch := make(chan Snapshot[row], 64)
	c.OnChange(func(s Snapshot[row]) { ch <- s })
	return ch
}

func waitFor(t *testing.T, ch <-chan Snapshot[row], pred func(Snapshot[row]) bool) Snapshot[row] {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func settled(s Snapshot[row]) bool { return !s.Loading }

func TestController_LoadFirstPage(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	assert.Equal(t, StateIdle, c.Snapshot().State)

	c.Load()
	snap := waitFor(t, ch, settled)

	assert.Equal(t, StateSuccess, snap.State)
	assert.Len(t, snap.Items, 10)
	assert.Equal(t, 47, snap.TotalCount)
	assert.Equal(t, 1, snap.DisplayPage)
	assert.Equal(t, 10, snap.Size)

	calls := stub.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0, calls[0].Page, "first page is requested as zero")
	assert.Equal(t, 10, calls[0].Size)
}

func TestController_SetPageSendsZeroBasedPage(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.SetPage(2)
	snap := waitFor(t, ch, settled)

	assert.Equal(t, 2, snap.DisplayPage)
	calls := stub.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 1, calls[1].Page, "display page 2 maps to server page 1")
}

func TestController_SetPageSameValueIsNoop(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.SetPage(1)
	assert.Len(t, stub.calls(), 1)
}

func TestController_SetPageSizeResetsToFirstPage(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)
	c.SetPage(3)
	waitFor(t, ch, settled)

	c.SetPageSize(25)
	snap := waitFor(t, ch, settled)

	assert.Equal(t, 1, snap.DisplayPage)
	assert.Equal(t, 25, snap.Size)
	calls := stub.calls()
	last := calls[len(calls)-1]
	assert.Equal(t, 0, last.Page)
	assert.Equal(t, 25, last.Size)
}

func TestController_StaleResponseNeverOverwritesNewer(t *testing.T) {
	release := make(chan struct{})
	stub := &fetchStub{}
	stub.respond = func(q query.Query) (api.Page[row], error) {
		if q.Page == 0 {
			<-release // first request hangs until told otherwise
		}
		return pageOf(q, 47)
	}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()     // slow request for page 0
	c.SetPage(2) // fast request for page 1 supersedes it

	snap := waitFor(t, ch, settled)
	assert.Equal(t, 2, snap.DisplayPage)
	assert.Equal(t, "id-10", snap.Items[0].ID)

	close(release)
	time.Sleep(50 * time.Millisecond) // let the stale response arrive

	final := c.Snapshot()
	assert.Equal(t, 2, final.DisplayPage)
	assert.Equal(t, "id-10", final.Items[0].ID, "stale page 0 result must be discarded")
}

func TestController_ErrorKeepsStaleItemsVisible(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	stub := &fetchStub{}
	stub.respond = func(q query.Query) (api.Page[row], error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return api.Page[row]{}, &api.HTTPError{Status: 500, Message: "boom"}
		}
		return pageOf(q, 47)
	}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	mu.Lock()
	fail = true
	mu.Unlock()
	c.Refresh()
	snap := waitFor(t, ch, settled)

	assert.Equal(t, StateError, snap.State)
	require.Error(t, snap.Err)
	assert.Len(t, snap.Items, 10, "previous page stays visible next to the error")
	assert.Equal(t, 47, snap.TotalCount)

	mu.Lock()
	fail = false
	mu.Unlock()
	c.Retry()
	snap = waitFor(t, ch, settled)

	assert.Equal(t, StateSuccess, snap.State)
	assert.NoError(t, snap.Err, "error clears once a retry succeeds")
}

func TestController_SearchDebounce(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 5) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{
		Resource: "rows",
		PageSize: 10,
		Debounce: 30 * time.Millisecond,
	})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.SetSearch("g")
	c.SetSearch("go")
	c.SetSearch("gor")

	waitFor(t, ch, func(s Snapshot[row]) bool { return !s.Loading })
	time.Sleep(80 * time.Millisecond) // past the debounce window

	var searched []string
	for _, q := range stub.calls() {
		if q.Search != "" {
			searched = append(searched, q.Search)
		}
	}
	assert.Equal(t, []string{"gor"}, searched, "only the final keystroke triggers a request")
}

func TestController_SearchResetsPage(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)
	c.SetPage(3)
	waitFor(t, ch, settled)

	c.SetSearch("dune") // zero debounce commits immediately
	snap := waitFor(t, ch, settled)

	assert.Equal(t, 1, snap.DisplayPage)
	calls := stub.calls()
	last := calls[len(calls)-1]
	assert.Equal(t, 0, last.Page)
	assert.Equal(t, "dune", last.Search)
}

func TestController_ApplyUpdatedReplacesInPlace(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.ApplyUpdated(row{ID: "id-3", Name: "renamed"})
	snap := waitFor(t, ch, settled)

	assert.Equal(t, "renamed", snap.Items[3].Name)
	assert.Len(t, stub.calls(), 1, "no refetch on an unsorted, unfiltered page")
}

func TestController_ApplyUpdatedRefetchesUnderSort(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)
	c.SetSort("name", query.DirAsc)
	waitFor(t, ch, settled)

	c.ApplyUpdated(row{ID: "id-3", Name: "renamed"})
	waitFor(t, ch, settled)

	assert.Len(t, stub.calls(), 3, "sorted views cannot reposition locally and must refetch")
}

func TestController_ApplyDeletedSplicesWithoutRefetch(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.ApplyDeleted("id-4")
	snap := waitFor(t, ch, settled)

	assert.Len(t, snap.Items, 9)
	assert.Equal(t, 46, snap.TotalCount)
	for _, item := range snap.Items {
		assert.NotEqual(t, "id-4", item.ID)
	}
	assert.Len(t, stub.calls(), 1, "delete on the visible page needs no refetch")
}

func TestController_ApplyDeletedUnknownIDRefetches(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.ApplyDeleted("id-999")
	waitFor(t, ch, settled)

	assert.Len(t, stub.calls(), 2)
}

func TestController_ApplyDeletedEmptiedPageStepsBack(t *testing.T) {
	total := 11
	var mu sync.Mutex
	stub := &fetchStub{}
	stub.respond = func(q query.Query) (api.Page[row], error) {
		mu.Lock()
		defer mu.Unlock()
		return pageOf(q, total)
	}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)
	c.SetPage(2) // one item lives on page 2
	waitFor(t, ch, settled)

	mu.Lock()
	total = 10
	mu.Unlock()
	c.ApplyDeleted("id-10")
	snap := waitFor(t, ch, func(s Snapshot[row]) bool { return !s.Loading && len(s.Items) > 0 })

	assert.Equal(t, 1, snap.DisplayPage, "emptied trailing page steps back")
	assert.Len(t, snap.Items, 10)
}

func TestController_CloseDropsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	stub := &fetchStub{}
	stub.respond = func(q query.Query) (api.Page[row], error) {
		<-release
		return pageOf(q, 47)
	}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	ch := collect(c)
	_ = ch

	c.Load()
	c.Close()
	close(release)
	time.Sleep(50 * time.Millisecond)

	snap := c.Snapshot()
	assert.Empty(t, snap.Items, "nothing commits after Close")
}

func TestController_CacheServesRepeatQueries(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	store := memcache.NewMemoryCache(time.Minute, 0)
	defer store.Close()

	c := New(stub.fetch, func(r row) string { return r.ID }, Options{
		Resource: "rows",
		PageSize: 10,
		Cache:    store,
		CacheTTL: time.Minute,
	})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)
	time.Sleep(20 * time.Millisecond) // cache write trails the commit
	c.SetPage(2)
	waitFor(t, ch, settled)

	c.SetPage(1) // page 0 was cached by the first load
	snap := waitFor(t, ch, settled)

	assert.Equal(t, 1, snap.DisplayPage)
	assert.Equal(t, "id-0", snap.Items[0].ID)
	assert.Len(t, stub.calls(), 2, "revisiting a cached page skips the fetch")

	c.Refresh() // bypasses the cache
	waitFor(t, ch, settled)
	assert.Len(t, stub.calls(), 3)
}

func TestController_MutationInvalidatesCache(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	store := memcache.NewMemoryCache(time.Minute, 0)
	defer store.Close()

	c := New(stub.fetch, func(r row) string { return r.ID }, Options{
		Resource: "rows",
		PageSize: 10,
		Cache:    store,
		CacheTTL: time.Minute,
	})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)
	time.Sleep(20 * time.Millisecond) // cache write trails the commit

	// The differential update path invalidates without refetching, so the
	// next cache-friendly reload must go upstream again.
	c.ApplyUpdated(row{ID: "id-3", Name: "renamed"})
	waitFor(t, ch, settled)
	require.Len(t, stub.calls(), 1)

	c.Load()
	waitFor(t, ch, settled)
	assert.Len(t, stub.calls(), 2)
}

func TestController_ApplyCreatedAlwaysRefetches(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) { return pageOf(q, 47) }}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	waitFor(t, ch, settled)

	c.ApplyCreated(row{ID: "id-new", Name: "new row"})
	waitFor(t, ch, settled)
	assert.Len(t, stub.calls(), 2, "insert position is unknowable locally")
}

var errStub = errors.New("stub failure")

func TestController_NetworkErrorSurfacesInSnapshot(t *testing.T) {
	stub := &fetchStub{respond: func(q query.Query) (api.Page[row], error) {
		return api.Page[row]{}, &api.NetworkError{Err: errStub}
	}}
	c := New(stub.fetch, func(r row) string { return r.ID }, Options{Resource: "rows", PageSize: 10})
	defer c.Close()
	ch := collect(c)

	c.Load()
	snap := waitFor(t, ch, settled)

	assert.Equal(t, StateError, snap.State)
	assert.True(t, api.IsRetryable(snap.Err))
	assert.ErrorIs(t, snap.Err, errStub)
}
