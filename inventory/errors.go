package inventory

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("inventory: not found")

	// ErrConflict is returned on a uniqueness violation (duplicate SKU) or
	// when a delete is blocked by dependent records.
	ErrConflict = errors.New("inventory: conflict")

	// ErrInsufficientStock is returned when a stock mutation would drive the
	// on-hand quantity below zero. Nothing is written.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")

	// ErrInvalidInput is returned when a required field is missing or
	// malformed.
	ErrInvalidInput = errors.New("inventory: invalid input")
)
