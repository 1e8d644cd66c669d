package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book as exposed by the upstream admin API. Field names follow the wire
// contract (camelCase).
type Book struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn,omitempty"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CoverImageURL string          `json:"coverImageUrl,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Sortable fields accepted by the list endpoint.
const (
	SortTitle     = "title"
	SortAuthor    = "author"
	SortPrice     = "price"
	SortCreatedAt = "createdAt"
)
