package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var ErrPackNotFound = errors.New("pack not found")

// Pack is a discounted bundle of books promoted on the homepage.
type Pack struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	BookIDs       []string        `json:"bookIds"`
	CoverImageURL string          `json:"coverImageUrl,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// SavePackRequest - POST /packs and PUT /packs/:id
type SavePackRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	BookIDs       []string        `json:"bookIds"`
	CoverImageURL string          `json:"coverImageUrl,omitempty"`
	Active        bool            `json:"active"`
}

func (req SavePackRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Price, validation.By(func(value interface{}) error {
			price, ok := value.(decimal.Decimal)
			if !ok || price.IsNegative() {
				return errors.New("price must not be negative")
			}
			return nil
		})),
		validation.Field(&req.BookIDs, validation.Required, validation.Length(2, 50)),
	)
}
