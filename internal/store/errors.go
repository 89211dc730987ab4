package store

import (
	"errors"
	"fmt"
)

var (
	ErrIO         = errors.New("license store i/o failure")
	ErrValidation = errors.New("license validation failed")
)

type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s license file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ValidationError is returned by AddKey when a key cannot be decoded or is
// rejected. Reason is meant to be shown to the user as is.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return "given license is not valid: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
