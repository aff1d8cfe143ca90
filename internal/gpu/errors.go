package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means no compatible pixel configuration was found.
	ErrConfiguration = errors.New("no compatible graphics configuration")
	// ErrContextCreation means both the primary and fallback context requests failed.
	ErrContextCreation = errors.New("graphics context creation failed")
	// ErrInteropUnavailable means bridged presentation cannot be used and the
	// caller should present directly through the rendering context.
	ErrInteropUnavailable = errors.New("cross-API interop unavailable")
	// ErrZeroSize is returned for a drawable with a zero dimension.
	ErrZeroSize = errors.New("drawable size must be non-zero")
	// ErrContextInUse is returned when closing a context that still has live dependents.
	ErrContextInUse = errors.New("render context still has live dependents")
	// ErrContextClosed is returned for operations on a closed context.
	ErrContextClosed = errors.New("render context is closed")
	// ErrBridgeBusy is returned when a frame is started while another is in flight.
	ErrBridgeBusy = errors.New("interop bridge frame already in progress")
	// ErrBridgeClosed is returned for operations on a closed bridge.
	ErrBridgeClosed = errors.New("interop bridge is closed")
)

// ContextError records why the primary and fallback context requests failed.
type ContextError struct {
	Primary  error
	Fallback error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("%v: primary: %v; fallback: %v", ErrContextCreation, e.Primary, e.Fallback)
}

func (e *ContextError) Is(target error) bool { return target == ErrContextCreation }

func (e *ContextError) Unwrap() []error { return []error{e.Primary, e.Fallback} }

// InteropError reports the bridge setup stage that failed.
type InteropError struct {
	Stage string
	Err   error
}

func (e *InteropError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInteropUnavailable, e.Stage, e.Err)
}

func (e *InteropError) Is(target error) bool { return target == ErrInteropUnavailable }

func (e *InteropError) Unwrap() error { return e.Err }

func interopErr(stage string, err error) error {
	return &InteropError{Stage: stage, Err: err}
}
