package eventaggregator

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when Subscribe is given a nil listener
	// or Raise is given a nil event. It signals a programming error.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrListenerFailure matches every *ListenerError with errors.Is
	ErrListenerFailure = errors.New("listener failure")
)

// ListenerError is returned by Raise when a listener fails.
// Listeners after the failing one were not called.
type ListenerError struct {
	EventType reflect.Type
	Listener  any
	Err       error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %T failed handling %s: %v", e.Listener, e.EventType, e.Err)
}

// Unwrap returns the error produced by the listener
func (e *ListenerError) Unwrap() error { return e.Err }

// Is reports whether target is ErrListenerFailure
func (e *ListenerError) Is(target error) bool {
	return target == ErrListenerFailure
}
