package service

import (
	"errors"
	"fmt"
)

var (
	ErrInternal        = errors.New("internal server error")
	ErrPostNotFound    = errors.New("post not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfFollow      = errors.New("you cannot follow yourself")
	ErrNotPostAuthor   = errors.New("only the author can edit this post")
	ErrFileMustBeImage = errors.New("file must be a decodable image")
)

// ValidationError names the rejected field so the client can redisplay the
// form with a message next to it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field string, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
