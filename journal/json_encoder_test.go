package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stofte/event-aggregator-listener/journal"
)

func TestShouldDecodeEncodedEvent(t *testing.T) {
	enc := journal.NewJSONEncoder(SomeEvent{}, AnotherEvent{})

	for _, evt := range []any{
		SomeEvent{UserID: "some-user"},
		AnotherEvent{Smth: "foo"},
	} {
		encoded, err := enc.Encode(evt)
		require.NoError(t, err)

		decoded, err := enc.Decode(encoded)
		require.NoError(t, err)

		assert.Equal(t, evt, decoded)
	}
}

func TestDecodeUnregisteredEvent(t *testing.T) {
	enc := journal.NewJSONEncoder(SomeEvent{})

	_, err := enc.Decode(&journal.EncodedEvt{Type: "AnotherEvent", Data: `{}`})

	assert.ErrorIs(t, err, journal.ErrEventNotRegistered)
}

func TestEncodeNilEvent(t *testing.T) {
	_, err := journal.NewJSONEncoder().Encode(nil)

	assert.Error(t, err)
}

func TestShouldNamePointerEventsByElementType(t *testing.T) {
	enc := journal.NewJSONEncoder(&SomeEvent{})

	encoded, err := enc.Encode(&SomeEvent{UserID: "some-user"})
	require.NoError(t, err)
	assert.Equal(t, "SomeEvent", encoded.Type)

	decoded, err := enc.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, &SomeEvent{UserID: "some-user"}, decoded)
}

func TestEncodeUnnamedEvent(t *testing.T) {
	enc := journal.NewJSONEncoder()

	_, err := enc.Encode(struct{ UserID string }{UserID: "u"})
	assert.Error(t, err)

	_, err = enc.Encode(map[string]string{"k": "v"})
	assert.Error(t, err)
}
