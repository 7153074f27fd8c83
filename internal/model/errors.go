package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error returned by the services wraps exactly one of them.
var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicate       = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	ErrEmptyCollection = errors.New("empty collection")
)

var (
	ErrEmptyPayload      = fmt.Errorf("%w: Invalid request. JSON data is required.", ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("%w: 'amount' must be a number", ErrValidation)
	ErrNegativeAmount    = fmt.Errorf("%w: 'amount' must be a non-negative integer", ErrValidation)
	ErrNonPositiveAmount = fmt.Errorf("%w: 'amount' must be a positive integer", ErrValidation)
	ErrEmptyQuery        = fmt.Errorf("%w: Search term is required.", ErrValidation)
	ErrPasswordTooLong   = fmt.Errorf("%w: 'password' must be at most 72 bytes", ErrValidation)
	ErrInvalidPhoto      = fmt.Errorf("%w: photo must be a JPEG or PNG image", ErrValidation)

	ErrDuplicateItem = fmt.Errorf("%w: Item already exists.", ErrDuplicate)
	ErrDuplicateUser = fmt.Errorf("%w: Username or email already exists.", ErrDuplicate)

	ErrItemNotFound = fmt.Errorf("%w: Item not found", ErrNotFound)
	ErrNoMatches    = fmt.Errorf("%w: No items found matching the search criteria.", ErrNotFound)
	ErrNoPhoto      = fmt.Errorf("%w: Item has no photo", ErrNotFound)

	ErrNoItems = fmt.Errorf("%w: No items found.", ErrEmptyCollection)
	ErrNoUsers = fmt.Errorf("%w: No users found.", ErrEmptyCollection)
)

// MissingFieldError reports a required payload field that is absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("'%s' is required.", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrValidation }

// Message returns the human-readable part of err, without the class prefix.
func Message(err error) string {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf.Error()
	}
	for _, class := range []error{ErrValidation, ErrDuplicate, ErrNotFound, ErrEmptyCollection} {
		if !errors.Is(err, class) {
			continue
		}
		if _, msg, ok := strings.Cut(err.Error(), class.Error()+": "); ok {
			return msg
		}
	}
	return err.Error()
}
