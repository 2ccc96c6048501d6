package sentinel

import "errors"

// Stores return these, optionally wrapped, and services translate them into
// domain errors. Input validation failures belong in pkg/domain-errors.
//
//   - ErrNotFound: the account or profile version does not exist
//   - ErrInvalidState: a read-modify-write callback refused the current record
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)
