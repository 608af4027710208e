package escrow

import "errors"

// ErrValidation is returned when the input for a new transaction is malformed,
// e.g. a non-positive amount or an empty description.
var ErrValidation = errors.New("invalid transaction input")

// ErrNotFound is returned when the referenced transaction does not exist.
var ErrNotFound = errors.New("transaction not found")

// ErrInvalidTransition is returned when a status change is not permitted from
// the transaction's current state, or the acting user may not trigger it.
var ErrInvalidTransition = errors.New("invalid status transition")
