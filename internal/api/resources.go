package api

import (
	"context"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	bookmodel "bookstore-admin/internal/domains/book/model"
	ordermodel "bookstore-admin/internal/domains/order/model"
	packmodel "bookstore-admin/internal/domains/pack/model"
	sectionmodel "bookstore-admin/internal/domains/section/model"
	usermodel "bookstore-admin/internal/domains/user/model"
	"bookstore-admin/internal/query"
)

// Resource is a typed CRUD client for one upstream collection.
// normalize, when set, is applied to every item the server returns and must
// only touch derived fields (image URL resolution).
type Resource[T any] struct {
	client    *Client
	path      string
	normalize func(*T)
}

func NewResource[T any](c *Client, path string, normalize func(*T)) *Resource[T] {
	return &Resource[T]{client: c, path: path, normalize: normalize}
}

func (r *Resource[T]) List(ctx context.Context, q query.Query) (Page[T], error) {
	var page Page[T]
	if err := r.client.do(ctx, http.MethodGet, r.path, q.Values(), nil, &page); err != nil {
		return Page[T]{}, err
	}
	if r.normalize != nil {
		for i := range page.Items {
			r.normalize(&page.Items[i])
		}
	}
	return page, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if err := r.client.do(ctx, http.MethodGet, r.path+"/"+id, nil, nil, &item); err != nil {
		return item, err
	}
	if r.normalize != nil {
		r.normalize(&item)
	}
	return item, nil
}

func (r *Resource[T]) Create(ctx context.Context, req interface{}) (T, error) {
	var item T
	if err := validateRequest(req); err != nil {
		return item, err
	}
	if err := r.client.do(ctx, http.MethodPost, r.path, nil, req, &item); err != nil {
		return item, err
	}
	if r.normalize != nil {
		r.normalize(&item)
	}
	return item, nil
}

func (r *Resource[T]) Update(ctx context.Context, id string, req interface{}) (T, error) {
	var item T
	if err := validateRequest(req); err != nil {
		return item, err
	}
	if err := r.client.do(ctx, http.MethodPut, r.path+"/"+id, nil, req, &item); err != nil {
		return item, err
	}
	if r.normalize != nil {
		r.normalize(&item)
	}
	return item, nil
}

// validateRequest runs the request's own validation rules. A body that fails
// here never reaches the network; the ozzo error carries per-field detail
// for inline display.
func validateRequest(req interface{}) error {
	if v, ok := req.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
		}
	}
	return nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil, nil)
}

// Typed clients for the five admin resources.

func (c *Client) Books() *Resource[bookmodel.Book] {
	return NewResource(c, "/books", func(b *bookmodel.Book) {
		b.CoverImageURL = NormalizeImageURL(b.CoverImageURL, c.imageBaseURL)
	})
}

func (c *Client) Orders() *Resource[ordermodel.Order] {
	return NewResource[ordermodel.Order](c, "/orders", nil)
}

func (c *Client) Users() *Resource[usermodel.User] {
	return NewResource[usermodel.User](c, "/users", nil)
}

func (c *Client) Sections() *Resource[sectionmodel.Section] {
	return NewResource(c, "/sections", func(s *sectionmodel.Section) {
		s.CoverImageURL = NormalizeImageURL(s.CoverImageURL, c.imageBaseURL)
	})
}

func (c *Client) Packs() *Resource[packmodel.Pack] {
	return NewResource(c, "/packs", func(p *packmodel.Pack) {
		p.CoverImageURL = NormalizeImageURL(p.CoverImageURL, c.imageBaseURL)
	})
}
