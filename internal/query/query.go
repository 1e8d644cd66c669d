package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Sort directions accepted by the upstream list endpoints.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// Query describes one page of a server-side collection listing.
// Page is ZERO-based: this is the upstream paging contract. The one-based
// number shown to users lives in the controller layer, never here.
type Query struct {
	Page    int
	Size    int
	Search  string
	Filters map[string]string // e.g. "status" => "pending"
	Sort    string
	Dir     string
}

// New returns a first-page query with the given page size.
func New(size int) Query {
	return Query{Page: 0, Size: size}
}

// WithFilter returns a copy with one filter key set (empty value removes it).
// The original is not mutated.
func (q Query) WithFilter(key, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if value == "" {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	q.Filters = filters
	return q
}

// Values encodes the query as upstream URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		dir := q.Dir
		if dir == "" {
			dir = DirAsc
		}
		v.Set("dir", dir)
	}
	for k, val := range q.Filters {
		v.Set(k, val)
	}
	return v
}

// CacheKey derives a deterministic cache key for this query.
// Filter keys are sorted so that equal queries always map to the same key.
func (q Query) CacheKey(resource string) string {
	var b strings.Builder
	b.WriteString(resource)
	b.WriteString(":list:p=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString(":s=")
	b.WriteString(strconv.Itoa(q.Size))
	if q.Search != "" {
		b.WriteString(":q=")
		b.WriteString(q.Search)
	}
	if q.Sort != "" {
		b.WriteString(":sort=")
		b.WriteString(q.Sort)
		b.WriteString(",")
		if q.Dir != "" {
			b.WriteString(q.Dir)
		} else {
			b.WriteString(DirAsc)
		}
	}
	if len(q.Filters) > 0 {
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(":")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(q.Filters[k])
		}
	}
	return b.String()
}
