package store

import "errors"

var (
	// ErrNotFound is returned when updating a document that doesn't exist,
	// and by Snapshot accessors when the requested data is missing.
	ErrNotFound = errors.New("docmock: document not found")

	// ErrAlreadyExists is returned when creating a document that already exists.
	ErrAlreadyExists = errors.New("docmock: document already exists")

	// ErrInvalidPath is returned when a slash path is malformed or addresses
	// the wrong kind of node.
	ErrInvalidPath = errors.New("docmock: invalid path")

	// ErrInvalidValue is returned when a write payload cannot be applied,
	// such as a transform inside an array.
	ErrInvalidValue = errors.New("docmock: invalid value")

	// ErrUnsupportedType is returned when a Go or DynamoDB value has no Value representation.
	ErrUnsupportedType = errors.New("docmock: unsupported type")
)
