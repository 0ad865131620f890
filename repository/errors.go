package repository

import "errors"

// Sentinel errors returned by repositories. Handlers translate these into
// HTTP status codes with errors.Is.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
