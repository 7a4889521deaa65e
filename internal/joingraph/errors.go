package joingraph

import (
	"errors"
	"fmt"
)

// DuplicateJoinPathError indicates two distinct join edges connect the
// same unordered table pair. The model is malformed; the caller's
// remedy is to remove or merge the duplicate edge.
type DuplicateJoinPathError struct {
	// TableA and TableB are the rendered table references ("name" or
	// "name alias") of the pair connected more than once.
	TableA string
	TableB string
}

// Error implements the error interface.
func (e *DuplicateJoinPathError) Error() string {
	return fmt.Sprintf("duplicate join path between %s and %s", e.TableA, e.TableB)
}

// UnreachableJoinPathError indicates the join graph is disconnected
// from the anchor table: a full pass over the remaining edges attached
// nothing. The caller's remedy is to add a connecting edge or split the
// query.
type UnreachableJoinPathError struct {
	// TableA and TableB are the endpoints of the first remaining edge
	// that could not be reached.
	TableA string
	TableB string
}

// Error implements the error interface.
func (e *UnreachableJoinPathError) Error() string {
	return fmt.Sprintf("no join path to edge between %s and %s", e.TableA, e.TableB)
}

// IsDuplicateJoinPath returns true if err is (or wraps) a
// DuplicateJoinPathError.
func IsDuplicateJoinPath(err error) bool {
	var e *DuplicateJoinPathError
	return errors.As(err, &e)
}

// IsUnreachableJoinPath returns true if err is (or wraps) an
// UnreachableJoinPathError.
func IsUnreachableJoinPath(err error) bool {
	var e *UnreachableJoinPathError
	return errors.As(err, &e)
}
