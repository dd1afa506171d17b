// Package usecase implements the business logic for the catalog feature.
package usecase

import "errors"

var (
	// ErrNotFound is returned when no document matches a lookup.
	ErrNotFound = errors.New("document not found")

	// ErrStorageUnavailable wraps any failure of the underlying store.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
