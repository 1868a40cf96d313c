package demo

import (
	"fmt"
	"io"

	eventaggregator "github.com/stofte/event-aggregator-listener"
)

var (
	_ eventaggregator.Listener[DomainEvent]      = (*SomeObject)(nil)
	_ eventaggregator.Listener[OtherDomainEvent] = (*SomeOtherObject)(nil)
)

// NewSomeObject constructs a SomeObject and subscribes it on a
func NewSomeObject(a *eventaggregator.Aggregator, out io.Writer) (*SomeObject, error) {
	o := &SomeObject{out: out}

	return o, o.Register(a)
}

// SomeObject prints every DomainEvent it receives
type SomeObject struct {
	out io.Writer
}

// OnEvent handles DomainEvent
func (o *SomeObject) OnEvent(e DomainEvent) error {
	_, err := fmt.Fprintf(o.out, "SomeObject received: %s\n", e.Message)

	return err
}

// Register subscribes o for DomainEvent
func (o *SomeObject) Register(a *eventaggregator.Aggregator) error {
	return eventaggregator.Subscribe[DomainEvent](a, o)
}

// NewSomeOtherObject constructs a SomeOtherObject and subscribes it on a
func NewSomeOtherObject(a *eventaggregator.Aggregator, out io.Writer) (*SomeOtherObject, error) {
	o := &SomeOtherObject{out: out}

	return o, o.Register(a)
}

// SomeOtherObject prints every OtherDomainEvent it receives
type SomeOtherObject struct {
	out io.Writer
}

// OnEvent handles OtherDomainEvent
func (o *SomeOtherObject) OnEvent(e OtherDomainEvent) error {
	_, err := fmt.Fprintf(o.out, "SomeOtherObject received: %s, %d\n", e.Message, e.Number)

	return err
}

// Register subscribes o for OtherDomainEvent
func (o *SomeOtherObject) Register(a *eventaggregator.Aggregator) error {
	return eventaggregator.Subscribe[OtherDomainEvent](a, o)
}
