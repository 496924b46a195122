package errs

import (
	"errors"
)

var (
	// ErrNotFound: unknown request/loan/book id.
	ErrNotFound = errors.New("not found")

	// Conflict family: business state forbids the mutation.
	ErrNotAvailable     = errors.New("book is no longer available")
	ErrDuplicateRequest = errors.New("pending request for this book already exists")
	ErrAlreadyResolved  = errors.New("request is already resolved")
	ErrLoanClosed       = errors.New("loan is already returned")

	// ErrNotOwner: the caller does not own the entity.
	ErrNotOwner = errors.New("not the owner")

	// ErrValidation: rejected before any state mutation.
	ErrValidation = errors.New("validation failed")
)

// IsConflict reports whether err belongs to the conflict taxonomy.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNotAvailable) ||
		errors.Is(err, ErrDuplicateRequest) ||
		errors.Is(err, ErrAlreadyResolved) ||
		errors.Is(err, ErrLoanClosed)
}
