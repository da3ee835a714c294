package models

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrConflict          = errors.New("order was modified concurrently")
	ErrInvalidTransition = errors.New("order is not in a state that allows this transition")
)
