package storage

import "errors"

var (
	// ErrNotFound indicates the requested blob or container does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrExists indicates a blob already exists and overwrite was not requested.
	ErrExists = errors.New("blob already exists")
	// ErrEmptyKey indicates an empty blob name was provided.
	ErrEmptyKey = errors.New("blob name must not be empty")
	// ErrInvalidKey indicates the blob name contains a path traversal segment.
	ErrInvalidKey = errors.New("blob name contains invalid path segment")
)
