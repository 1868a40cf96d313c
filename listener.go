package eventaggregator

import "github.com/pkg/errors"

// Listener receives events of type T. Returning an error aborts the
// Raise call that delivered the event.
type Listener[T any] interface {
	OnEvent(event T) error
}

// ListenerFunc adapts an ordinary function to the Listener interface
type ListenerFunc[T any] func(T) error

// OnEvent calls f(event)
func (f ListenerFunc[T]) OnEvent(event T) error { return f(event) }

// Registrar is implemented by listeners that know how to subscribe
// themselves, typically from their constructor:
//
//	func (o *SomeObject) Register(a *eventaggregator.Aggregator) error {
//		return eventaggregator.Subscribe[DomainEvent](a, o)
//	}
type Registrar interface {
	Register(a *Aggregator) error
}

// RegisterAll calls Register on each registrar in turn and stops at the
// first error
func RegisterAll(a *Aggregator, registrars ...Registrar) error {
	for _, r := range registrars {
		if isNil(r) {
			return errors.Wrap(ErrInvalidArgument, "register: registrar is nil")
		}

		if err := r.Register(a); err != nil {
			return err
		}
	}

	return nil
}
