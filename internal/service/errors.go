package service

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("access denied")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
)
