package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity marks a catalog that declares one code with conflicting content.
	ErrIntegrity = errors.New("catalog integrity violation")
	// ErrNotSealed is returned when resolution is attempted on an index that
	// is still being merged.
	ErrNotSealed = errors.New("catalog index is not sealed")
	// ErrSealed is returned when a sealed index is modified.
	ErrSealed = errors.New("catalog index is sealed")
)

// IntegrityError reports a discipline code declared by more than one record
// with differing content.
type IntegrityError struct {
	Code   string
	Groups []string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: discipline %s declared with conflicting content in groups %v", ErrIntegrity, e.Code, e.Groups)
}

// Unwrap lets errors.Is match ErrIntegrity.
func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
