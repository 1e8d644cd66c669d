package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UpdateOrderRequest - PUT /orders/:id
// Admin console only changes status and internal note.
type UpdateOrderRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"adminNote,omitempty"`
}

func (req UpdateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.Required, validation.In(
			StatusPending,
			StatusPaid,
			StatusShipped,
			StatusDelivered,
			StatusCancelled,
		)),
		validation.Field(&req.AdminNote, validation.Length(0, 1000)),
	)
}
