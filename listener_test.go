package eventaggregator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	eventaggregator "github.com/stofte/event-aggregator-listener"
)

type selfRegistering struct {
	recorder[baseEvent]

	registerErr error
	registered  int
}

func (s *selfRegistering) Register(a *eventaggregator.Aggregator) error {
	s.registered++

	if s.registerErr != nil {
		return s.registerErr
	}

	return eventaggregator.Subscribe[baseEvent](a, s)
}

func TestRegisterAllSubscribesEachRegistrar(t *testing.T) {
	agg := quiet()

	first := &selfRegistering{}
	second := &selfRegistering{}

	err := eventaggregator.RegisterAll(agg, first, second)

	assert.NoError(t, err)
	assert.Equal(t, 2, eventaggregator.SubscriberCount[baseEvent](agg))

	assert.NoError(t, eventaggregator.Raise(agg, baseEvent{Message: "hi"}))
	assert.Len(t, first.events(), 1)
	assert.Len(t, second.events(), 1)
}

func TestRegisterAllStopsAtFirstError(t *testing.T) {
	agg := quiet()

	wantErr := errors.New("cannot register")

	failing := &selfRegistering{registerErr: wantErr}
	skipped := &selfRegistering{}

	err := eventaggregator.RegisterAll(agg, failing, skipped)

	assert.ErrorIs(t, err, wantErr)
	assert.Zero(t, skipped.registered)
	assert.Zero(t, eventaggregator.SubscriberCount[baseEvent](agg))
}

func TestRegisterAllRejectsNilRegistrar(t *testing.T) {
	var missing *selfRegistering

	err := eventaggregator.RegisterAll(quiet(), missing)

	assert.ErrorIs(t, err, eventaggregator.ErrInvalidArgument)
}

func TestListenerFuncCallsFunction(t *testing.T) {
	var got string

	f := eventaggregator.ListenerFunc[baseEvent](func(e baseEvent) error {
		got = e.Message

		return nil
	})

	assert.NoError(t, f.OnEvent(baseEvent{Message: "direct"}))
	assert.Equal(t, "direct", got)
}
