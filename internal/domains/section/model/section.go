package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrSectionNotFound = errors.New("section not found")

// Section is a homepage carousel block. Same pagination and id contract as
// the other resources.
type Section struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Position      int       `json:"position"`
	Active        bool      `json:"active"`
	BookIDs       []string  `json:"bookIds"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SaveSectionRequest - POST /sections and PUT /sections/:id
type SaveSectionRequest struct {
	Title         string   `json:"title"`
	Position      int      `json:"position"`
	Active        bool     `json:"active"`
	BookIDs       []string `json:"bookIds"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
}

func (req SaveSectionRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Position, validation.Min(0)),
		validation.Field(&req.BookIDs, validation.Length(0, 50)),
	)
}
