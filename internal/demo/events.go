package demo

// DomainEvent is the base event of the demonstration
type DomainEvent struct {
	Message string
}

// OtherDomainEvent extends DomainEvent with a number. Embedding does not
// make it a DomainEvent as far as routing goes, listeners for DomainEvent
// never receive it.
type OtherDomainEvent struct {
	DomainEvent
	Number int
}
