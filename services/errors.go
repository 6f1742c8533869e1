package services

import (
	"errors"

	"MediCheck/util"
)

// ValidationError is a malformed or incomplete request. Nothing was persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrInvalidRequest     = &ValidationError{Message: util.INVALID_REQUEST}
	ErrNoValidMedications = &ValidationError{Message: util.NO_VALID_MEDICATIONS}

	// ErrStore wraps persistence failures on the save path.
	ErrStore = errors.New("medication store failure")
	// ErrQuery wraps timing index failures; the firing is aborted.
	ErrQuery = errors.New("timing index query failure")
)

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
