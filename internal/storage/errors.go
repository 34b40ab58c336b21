package storage

import (
	"errors"

	"github.com/sivaworkplace/money-expense-tracker/internal/storage/backend"
)

var (
	// ErrNotInitialized is returned when any operation is invoked before
	// Initialize has completed. This is a programmer error on the caller's
	// side, not a recoverable storage condition.
	ErrNotInitialized = errors.New("storage not initialized")

	// ErrNotFound is returned by Update* when no record with the given id
	// exists in the file-backed store. Recoverable: the caller may choose to
	// insert instead.
	ErrNotFound = backend.ErrNotFound
)
