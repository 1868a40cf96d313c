package journal

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

// ErrEventNotRegistered is returned by Decode for a type the encoder was not constructed with
var ErrEventNotRegistered = errors.New("event not registered")

// NewJSONEncoder constructs a json encoder able to decode the given event
// types. Pass a pointer (&SomeEvent{}) to have Decode return *SomeEvent.
func NewJSONEncoder(events ...any) *JSONEncoder {
	enc := JSONEncoder{
		types: make(map[string]reflect.Type),
	}

	for _, evt := range events {
		t := reflect.TypeOf(evt)
		enc.types[typeName(t)] = t
	}

	return &enc
}

// JSONEncoder stores events as json together with the name of their type.
// Pointer events are stored under the name of the type they point to.
type JSONEncoder struct {
	types map[string]reflect.Type
}

// Encode marshals evt to json
func (e *JSONEncoder) Encode(evt any) (*EncodedEvt, error) {
	if evt == nil {
		return nil, errors.New("cannot encode nil event")
	}

	name := typeName(reflect.TypeOf(evt))
	if name == "" {
		return nil, errors.Errorf("cannot encode event of unnamed type %T", evt)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	return &EncodedEvt{
		Type: name,
		Data: string(data),
	}, nil
}

// Decode unmarshals evt into the type it was registered with
func (e *JSONEncoder) Decode(evt *EncodedEvt) (any, error) {
	t, ok := e.types[evt.Type]
	if !ok {
		return nil, errors.Wrapf(ErrEventNotRegistered, "decode %q", evt.Type)
	}

	v := reflect.New(t)

	if err := json.Unmarshal([]byte(evt.Data), v.Interface()); err != nil {
		return nil, err
	}

	return v.Elem().Interface(), nil
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}
