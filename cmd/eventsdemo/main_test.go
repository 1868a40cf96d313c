package main

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrintsScenario(t *testing.T) {
	t.Setenv("EVENTS_JOURNAL_SQLITE", "")
	t.Setenv("EVENTS_JOURNAL_POSTGRES", "")

	var out bytes.Buffer

	require.NoError(t, run(&out))

	assert.Equal(t, `Adding someObj subscriber
SomeObject received: event1
Adding someOtherObj subscriber
SomeObject received: event2
SomeOtherObject received: other event2, 2
`, out.String())
}

func TestRunJournalsRaisedEvents(t *testing.T) {
	t.Setenv("EVENTS_JOURNAL_SQLITE", filepath.Join(t.TempDir(), "events.db"))
	t.Setenv("EVENTS_JOURNAL_POSTGRES", "")

	var out bytes.Buffer

	require.NoError(t, run(&out))

	assert.Contains(t, out.String(), "journal demo.DomainEvent #1: {Message:event1}")
	assert.Contains(t, out.String(), "journal demo.DomainEvent #2: {Message:event2}")
	assert.Contains(t, out.String(), "journal demo.OtherDomainEvent #1: {DomainEvent:{Message:other event1} Number:1}")
	assert.Contains(t, out.String(), "journal demo.OtherDomainEvent #2: {DomainEvent:{Message:other event2} Number:2}")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer

	closeAndLog(log.New(&buf, "", 0), closerFunc(func() error {
		return errors.New("database is locked")
	}))

	assert.Equal(t, "journal: close: database is locked\n", buf.String())
}

func TestCloseSuccessLogsNothing(t *testing.T) {
	var buf bytes.Buffer

	closeAndLog(log.New(&buf, "", 0), closerFunc(func() error { return nil }))

	assert.Empty(t, buf.String())
}
