package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrDataUnavailable = errors.New("data unavailable")
	ErrFieldNotFound   = errors.New("field not found")

	// Fit errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidDegree    = errors.New("unsupported polynomial degree")

	// Output errors
	ErrRenderFailed = errors.New("render failed")
)

// Error constructors with context
func NewDataUnavailableError(path string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDataUnavailable, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, err)
}

func NewFieldNotFoundError(field, dataset string) error {
	if dataset == "" {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	return fmt.Errorf("%w: %q in dataset %s", ErrFieldNotFound, field, dataset)
}

func NewInsufficientDataError(group string, reason string) error {
	return fmt.Errorf("%w: group %q: %s", ErrInsufficientData, group, reason)
}

func NewRenderError(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrRenderFailed, reason)
	}
	return fmt.Errorf("%w: %s: %v", ErrRenderFailed, reason, err)
}
