package repository

import (
	"errors"
	"fmt"
)

// AlreadyExistsError indicates a store without overwrite hit an
// existing document.
type AlreadyExistsError struct {
	ID string
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("document %q already exists (store with overwrite to replace)", e.ID)
}

// NotFoundError indicates a document or named model that does not
// exist in the repository.
type NotFoundError struct {
	ID    string
	Model string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model %q not found in document %q", e.Model, e.ID)
	}
	return fmt.Sprintf("document %q not found", e.ID)
}

// IsAlreadyExists returns true if err is (or wraps) an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var e *AlreadyExistsError
	return errors.As(err, &e)
}

// IsNotFound returns true if err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
