package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedEnvelope reports an inbound message whose outer structure
// could not be parsed, or whose required fields are missing. Such messages
// produce no event at all.
var ErrMalformedEnvelope = errors.New("malformed event envelope")

// envelope is the wire format of the realtime channel. The payload arrives
// as an independently JSON-encoded string inside the data field.
type envelope struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

// Decoder turns raw realtime messages into typed events. Decoding is total:
// every well-formed envelope yields exactly one event, with unregistered or
// mismatched payloads degrading to *Unknown rather than failing.
type Decoder struct {
	source string
}

// NewDecoder returns a decoder whose unknown events are tagged with the
// given source label (e.g. the feed that produced them).
func NewDecoder(source string) *Decoder {
	return &Decoder{source: source}
}

// Decode parses a raw inbound message into a typed event.
func (d *Decoder) Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.Event == "" || len(env.Data) == 0 {
		return Event{}, fmt.Errorf("%w: missing event name or data", ErrMalformedEnvelope)
	}

	payload, err := extractPayload(env.Data)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	entry, ok := lookupEvent(env.Event)
	if !ok {
		return d.unknown(env, payload), nil
	}

	decoded, err := entry.decode(payload)
	if err != nil {
		// Registered name but the payload does not match the registered
		// shape. Soft condition: degrade to unknown, never fail the stream.
		return d.unknown(env, payload), nil
	}

	return Event{
		Name:     env.Event,
		Channel:  env.Channel,
		Category: entry.category,
		Payload:  decoded,
	}, nil
}

func (d *Decoder) unknown(env envelope, payload []byte) Event {
	return Event{
		Name:     env.Event,
		Channel:  env.Channel,
		Category: CategoryUnknown,
		Payload: &Unknown{
			Name:    env.Event,
			Channel: env.Channel,
			Raw:     payload,
			Source:  d.source,
		},
	}
}

// extractPayload unwraps the nested JSON string in the data field. The
// inner payload must itself be valid JSON; anything else marks the whole
// envelope as malformed.
func extractPayload(data json.RawMessage) ([]byte, error) {
	var inner string
	if err := json.Unmarshal(data, &inner); err != nil {
		// Some internal protocol frames carry data as a bare object.
		if json.Valid(data) && len(data) > 0 && data[0] == '{' {
			return data, nil
		}
		return nil, fmt.Errorf("data field is neither a JSON string nor an object: %v", err)
	}
	payload := []byte(inner)
	if !json.Valid(payload) {
		return nil, errors.New("nested payload is not valid JSON")
	}
	return payload, nil
}
