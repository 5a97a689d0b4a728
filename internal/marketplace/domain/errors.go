package domain

import "errors"

// Error categories. Callers classify with errors.Is; the transport layer maps
// each category to a status code.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrForbidden          = errors.New("action forbidden")
	ErrConflict           = errors.New("conflict")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidInput       = errors.New("invalid input data")
	ErrLocked             = errors.New("entity is locked")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrRepository         = errors.New("repository error")
)

// Specific errors. Each wraps one category above.
var (
	ErrUsernameReserved  = wrap(ErrConflict, "this username is reserved")
	ErrUsernameTaken     = wrap(ErrConflict, "username already exists")
	ErrEmailTaken        = wrap(ErrConflict, "email already registered")
	ErrAdminOnly         = wrap(ErrForbidden, "admin access required")
	ErrUserOnly          = wrap(ErrForbidden, "only regular users can do this")
	ErrNotOwner          = wrap(ErrForbidden, "you can only modify your own listings")
	ErrNoSelfInterest    = wrap(ErrForbidden, "you cannot show interest in your own listing")
	ErrNoSelfReview      = wrap(ErrForbidden, "you cannot review your own listing")
	ErrDuplicateInterest = wrap(ErrDuplicate, "you have already shown interest in this listing")
	ErrDuplicateFeedback = wrap(ErrDuplicate, "you have already reviewed this listing")
	ErrListingLocked     = wrap(ErrLocked, "cannot edit listing that has received feedback")
)

type categorizedError struct {
	category error
	msg      string
}

func (e *categorizedError) Error() string { return e.msg }
func (e *categorizedError) Unwrap() error { return e.category }

func wrap(category error, msg string) error {
	return &categorizedError{category: category, msg: msg}
}
