package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidCriterion = errors.New("invalid criterion")
	ErrNotOpen          = errors.New("wanted request is not open")
)
