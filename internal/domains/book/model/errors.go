package model

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrISBNAlreadyExists = errors.New("ISBN already exists")
)
