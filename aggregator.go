// Package eventaggregator provides a small in-process event aggregator.
// Publishers raise typed events and every listener subscribed for the
// exact same type receives them synchronously on the raising goroutine.
// Publishers and listeners only share a reference to the Aggregator,
// never to each other.
package eventaggregator

import (
	"log"
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// New constructs a new Aggregator with an empty registry.
// Every Aggregator is independent, listeners subscribed on one
// instance never see events raised on another
func New(opts ...Option) *Aggregator {
	cfg := Cfg{
		Logger: log.Default(),
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	return &Aggregator{
		logger: cfg.Logger,
	}
}

// Cfg represents aggregator configuration (configure using Option)
type Cfg struct {
	Logger *log.Logger
}

// Option represents aggregator configuration option
type Option func(Cfg) Cfg

// WithLogger sets the logger used to report listener failures
func WithLogger(logger *log.Logger) Option {
	return func(cfg Cfg) Cfg {
		cfg.Logger = logger

		return cfg
	}
}

// Aggregator routes raised events to the listeners subscribed for
// their exact type. It is safe for concurrent use.
type Aggregator struct {
	// registry maps reflect.Type to *listeners[T] of that same type.
	// Entries are never removed.
	registry sync.Map

	logger *log.Logger
}

// Subscribe registers listener to receive every future event of exact
// type T raised on a. Subscribing the same listener twice means it
// will be called twice per Raise.
func Subscribe[T any](a *Aggregator, listener Listener[T]) error {
	if a == nil {
		return errors.Wrap(ErrInvalidArgument, "subscribe: aggregator is nil")
	}

	if isNil(listener) {
		return errors.Wrapf(ErrInvalidArgument, "subscribe: listener for %s is nil", typeOf[T]())
	}

	listenersFor[T](a).add(listener)

	return nil
}

// SubscribeFunc registers f as a listener for events of exact type T
func SubscribeFunc[T any](a *Aggregator, f func(T) error) error {
	if f == nil {
		return errors.Wrapf(ErrInvalidArgument, "subscribe: listener func for %s is nil", typeOf[T]())
	}

	return Subscribe[T](a, ListenerFunc[T](f))
}

// Raise delivers event to every listener currently subscribed for exact
// type T. Raising a type nobody subscribed to is a no-op.
//
// Delivery is synchronous and stops at the first listener that returns an
// error, the remaining listeners are not called. That error is returned
// wrapped in a *ListenerError. Delivery order is not specified.
func Raise[T any](a *Aggregator, event T) error {
	if a == nil {
		return errors.Wrap(ErrInvalidArgument, "raise: aggregator is nil")
	}

	if isNil(event) {
		return errors.Wrapf(ErrInvalidArgument, "raise: %s event is nil", typeOf[T]())
	}

	l, ok := lookup[T](a)
	if !ok {
		return nil
	}

	for _, listener := range l.snapshot() {
		if err := listener.OnEvent(event); err != nil {
			lerr := &ListenerError{
				EventType: typeOf[T](),
				Listener:  listener,
				Err:       err,
			}

			a.logger.Printf("aggregator: %v", lerr)

			return lerr
		}
	}

	return nil
}

// SubscriberCount returns the number of subscriptions for exact type T
func SubscriberCount[T any](a *Aggregator) int {
	if a == nil {
		return 0
	}

	l, ok := lookup[T](a)
	if !ok {
		return 0
	}

	return l.len()
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// isNil reports whether v is absent: a nil interface or a nil value of a
// nillable kind. Zero structs and zero scalars are valid events.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(&v).Elem()

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return true
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}

	return false
}
