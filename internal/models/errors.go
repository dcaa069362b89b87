package models

import "errors"

// Sentinel errors shared across repositories and services.
// Handlers map these onto HTTP status codes (409 / 404).
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)
