package usecase

import (
	"errors"
)

// Review ledger error taxonomy. Handlers map these to HTTP statuses with
// errors.Is; they are never collapsed into a generic failure so the client
// can distinguish e.g. "already reviewed" from "not permitted".
var (
	ErrUnauthorized     = errors.New("operation not permitted")
	ErrDuplicateReview  = errors.New("item already reviewed by this user")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrEmptyBody        = errors.New("review body must not be empty")
	ErrEmptyReply       = errors.New("reply must not be empty")
	ErrNotFound         = errors.New("review not found")
	ErrStoreUnavailable = errors.New("review store unavailable")
)
