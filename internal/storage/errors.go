package storage

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned when a snapshot or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a mint, token row or snapshot ID is
	// already stored. Stores never overwrite.
	ErrDuplicateKey = errors.New("duplicate key: already stored")

	// ErrInvalidInput is returned for entries missing their key.
	ErrInvalidInput = errors.New("invalid input")
)
