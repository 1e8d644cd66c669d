package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CreateBookRequest - POST /books
type CreateBookRequest struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn,omitempty"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CoverImageURL string          `json:"coverImageUrl,omitempty"`
	Active        bool            `json:"active"`
}

// Validate runs client-side constraints. A request that fails here is
// surfaced inline and never sent to the network.
func (req CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.ISBN, validation.Length(10, 17)),
		validation.Field(&req.Price, validation.By(priceNotNegative)),
		validation.Field(&req.Stock, validation.Min(0)),
	)
}

// UpdateBookRequest - PUT /books/:id (full replacement)
type UpdateBookRequest struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn,omitempty"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CoverImageURL string          `json:"coverImageUrl,omitempty"`
	Active        bool            `json:"active"`
}

func (req UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.ISBN, validation.Length(10, 17)),
		validation.Field(&req.Price, validation.By(priceNotNegative)),
		validation.Field(&req.Stock, validation.Min(0)),
	)
}

func priceNotNegative(value interface{}) error {
	price, ok := value.(decimal.Decimal)
	if !ok {
		return ErrInvalidPrice
	}
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
