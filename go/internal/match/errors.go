package match

import "errors"

// ErrMatchNotFound is returned when no match has the requested id
var ErrMatchNotFound = errors.New("match not found")

// ErrDuplicateMatchID is returned when a seed contains the same id twice
var ErrDuplicateMatchID = errors.New("duplicate match id")
