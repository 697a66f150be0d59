package repository

import "errors"

// Sentinel errors shared across repositories so services can branch on
// them with errors.Is instead of matching driver error strings.
var (
	ErrNotFound = errors.New("record not found")
)
