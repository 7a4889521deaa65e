package sqlgen

import (
	"errors"
	"fmt"
)

// UnsupportedConstructError indicates the model requests a construct
// the target dialect's grammar cannot express. The model is fine; the
// caller's remedy is to reformulate it or pick a different policy.
type UnsupportedConstructError struct {
	// Feature names the denied construct, e.g. "outer-join".
	Feature string

	// Dialect is the name of the policy that denied it.
	Dialect string
}

// Error implements the error interface.
func (e *UnsupportedConstructError) Error() string {
	if e.Dialect != "" {
		return fmt.Sprintf("unsupported construct %q in dialect %s", e.Feature, e.Dialect)
	}
	return fmt.Sprintf("unsupported construct %q", e.Feature)
}

// IsUnsupportedConstruct returns true if err is (or wraps) an
// UnsupportedConstructError.
func IsUnsupportedConstruct(err error) bool {
	var e *UnsupportedConstructError
	return errors.As(err, &e)
}
