package domain

import "errors"

var (
	// ErrMalformedDocument is returned when a document breaks the schema invariants
	ErrMalformedDocument = errors.New("malformed document")
	// ErrInvalidParams is returned when node creation params miss required fields
	ErrInvalidParams = errors.New("invalid params")
)
