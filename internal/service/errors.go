package service

import (
	"errors"
	"fmt"
)

// Request-scoped error kinds. Handlers map these to HTTP statuses; nothing
// here is ever fatal to the process.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotAuthor     = errors.New("only the author may modify the recipe")
	ErrSelfSubscribe = errors.New("cannot subscribe to yourself")
)

// ValidationError reports a bad field value in a request payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a field validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
