// Package demo holds two example listeners and a driver that shows
// exact-type routing on a shared aggregator.
package demo

import (
	"fmt"
	"io"

	eventaggregator "github.com/stofte/event-aggregator-listener"
)

// Run subscribes a SomeObject, raises one event of each type, subscribes a
// SomeOtherObject and raises one event of each type again. Progress and
// everything the listeners receive is written to out.
func Run(a *eventaggregator.Aggregator, out io.Writer) error {
	if _, err := fmt.Fprintln(out, "Adding someObj subscriber"); err != nil {
		return err
	}

	if _, err := NewSomeObject(a, out); err != nil {
		return err
	}

	if err := raiseBoth(a,
		DomainEvent{Message: "event1"},
		OtherDomainEvent{DomainEvent: DomainEvent{Message: "other event1"}, Number: 1},
	); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, "Adding someOtherObj subscriber"); err != nil {
		return err
	}

	if _, err := NewSomeOtherObject(a, out); err != nil {
		return err
	}

	return raiseBoth(a,
		DomainEvent{Message: "event2"},
		OtherDomainEvent{DomainEvent: DomainEvent{Message: "other event2"}, Number: 2},
	)
}

// raiseBoth raises d and then o on a
func raiseBoth(a *eventaggregator.Aggregator, d DomainEvent, o OtherDomainEvent) error {
	if err := eventaggregator.Raise(a, d); err != nil {
		return err
	}

	return eventaggregator.Raise(a, o)
}
