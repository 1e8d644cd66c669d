package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-admin/internal/auth"
	bookmodel "bookstore-admin/internal/domains/book/model"
	"bookstore-admin/internal/query"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, opts...)
	c.retryBase = time.Millisecond
	return c
}

func TestClient_ListEncodesQuery(t *testing.T) {
	var gotQuery map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(Page[map[string]string]{Items: nil, TotalCount: 0, Page: 2, Size: 25})
	})
	c := newTestClient(t, handler)

	q := query.New(25)
	q.Page = 2
	q.Search = "go"
	q.Sort = "title"
	q.Dir = query.DirDesc
	q = q.WithFilter("category", "fiction")

	res := NewResource[map[string]string](c, "/books", nil)
	page, err := res.List(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "25", gotQuery["size"])
	assert.Equal(t, "go", gotQuery["search"])
	assert.Equal(t, "title", gotQuery["sort"])
	assert.Equal(t, "desc", gotQuery["dir"])
	assert.Equal(t, "fiction", gotQuery["category"])
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 25, page.Size)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})
	c := newTestClient(t, handler, WithTokenSource(auth.StaticTokenSource("tok-123")))

	err := c.do(context.Background(), http.MethodGet, "/books", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"BOOK_001","message":"book not found"}}`))
	})
	c := newTestClient(t, handler)

	err := c.do(context.Background(), http.MethodGet, "/books/missing", nil, nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "BOOK_001", httpErr.Code)
	assert.Equal(t, "book not found", httpErr.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRetryable(err))
}

func TestClient_UnauthorizedFiresReauthHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":{"code":"AUTH_003","message":"token expired"}}`))
	})
	var fired atomic.Int32
	c := newTestClient(t, handler, WithReauth(func() { fired.Add(1) }))

	err := c.do(context.Background(), http.MethodGet, "/orders", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), fired.Load(), "reauth hook should fire exactly once, not per retry")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})
	c := newTestClient(t, handler, WithRetry(2))

	var out map[string]bool
	err := c.do(context.Background(), http.MethodGet, "/books", nil, nil, &out)
	require.NoError(t, err)
	assert.True(t, out["ok"])
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, handler, WithRetry(2))

	err := c.do(context.Background(), http.MethodGet, "/books", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NeverRetriesClientErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"code":"VALIDATION_FAILED","message":"bad input"}}`))
	})
	c := newTestClient(t, handler, WithRetry(3))

	err := c.do(context.Background(), http.MethodPost, "/books", nil, map[string]string{"title": ""}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL)
	c.retryBase = time.Millisecond

	err := c.do(context.Background(), http.MethodGet, "/books", nil, nil, nil)
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.True(t, IsRetryable(err))
}

func TestClient_CanceledContextStopsRetrying(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(5))
	c.retryBase = time.Hour // any backoff wait must be interrupted by ctx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := c.do(ctx, http.MethodGet, "/books", nil, nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResource_ValidationFailureNeverSent(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	})
	c := newTestClient(t, handler)
	res := NewResource[bookmodel.Book](c, "/books", nil)

	_, err := res.Create(context.Background(), bookmodel.CreateBookRequest{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, int32(0), calls.Load(), "invalid bodies stay off the wire")

	_, err = res.Update(context.Background(), "some-id", bookmodel.UpdateBookRequest{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, int32(0), calls.Load())
}

func TestResource_NormalizesListAndGet(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/covers/1" {
			w.Write([]byte(`{"url":"/uploads/1.jpg"}`))
			return
		}
		w.Write([]byte(`{"items":[{"url":"/uploads/1.jpg"},{"url":"https://cdn.other/2.jpg"}],"totalCount":2,"page":0,"size":10}`))
	})

	type cover struct {
		URL string `json:"url"`
	}
	c := newTestClient(t, handler, WithImageBaseURL("https://cdn.bookstore.local"))
	res := NewResource(c, "/covers", func(item *cover) {
		item.URL = NormalizeImageURL(item.URL, "https://cdn.bookstore.local")
	})

	page, err := res.List(context.Background(), query.New(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "https://cdn.bookstore.local/uploads/1.jpg", page.Items[0].URL)
	assert.Equal(t, "https://cdn.other/2.jpg", page.Items[1].URL)

	item, err := res.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.bookstore.local/uploads/1.jpg", item.URL)
}
