package journal

import "time"

// Entry represents an event that is to be appended to the journal
type Entry struct {
	Event any

	// Optional
	ID         string
	Meta       map[string]string
	OccurredOn time.Time
}

// Record holds a journaled event and its meta data
type Record struct {
	Event any
	Meta  map[string]string

	ID            string
	Sequence      uint64
	Type          string
	StreamID      string
	StreamVersion int
	OccurredOn    time.Time
}
