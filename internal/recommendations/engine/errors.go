package engine

import "errors"

var (
	ErrInvalidLimit        = errors.New("limit must not be negative")
	ErrInvalidDiversityCap = errors.New("diversity cap must be within (0, 1]")

	errExpanderPanic = errors.New("expander panicked")
)
