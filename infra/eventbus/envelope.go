package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/eventbus"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type envelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var validate = validator.New()

func encodeEnvelope(event common.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.Type(), err)
	}
	env := envelope{ID: uuid.NewString(), Type: event.Type(), Payload: data}
	envBytes, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope %s: %w", event.Type(), err)
	}
	return envBytes, nil
}

// decodeEnvelope parses a wire message into a validated typed event. Every
// failure mode surfaces as a DecodeError so consume loops can skip the
// message and keep reading.
func decodeEnvelope(raw []byte) (common.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &eventbus.DecodeError{Err: err}
	}
	if env.Type == "" {
		return nil, &eventbus.DecodeError{Err: errors.New("missing event type")}
	}

	constructor, ok := events.EventTypes[env.Type]
	if !ok {
		return nil, &eventbus.DecodeError{EventType: env.Type, Err: errors.New("unknown event type")}
	}

	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, &eventbus.DecodeError{EventType: env.Type, Err: err}
	}
	if err := validate.Struct(evt); err != nil {
		return nil, &eventbus.DecodeError{EventType: env.Type, Err: err}
	}
	if v, ok := evt.(common.Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, &eventbus.DecodeError{EventType: env.Type, Err: err}
		}
	}
	return evt, nil
}

// encodeTask wraps a task input for dispatch toward a service instance.
func encodeTask(instance, task string, input any) ([]byte, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, &eventbus.DispatchError{Instance: instance, Task: task, Err: err}
	}
	env := envelope{ID: uuid.NewString(), Type: task, Payload: data}
	envBytes, err := json.Marshal(env)
	if err != nil {
		return nil, &eventbus.DispatchError{Instance: instance, Task: task, Err: err}
	}
	return envBytes, nil
}
