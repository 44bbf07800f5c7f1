package errors

import "errors"

var (
	ErrInvalidIdentifierType = errors.New("identifier type is not supported")
	ErrNoIdentifierAvailable = errors.New("no identifier available from session facets")
)
