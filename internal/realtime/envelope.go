package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is one broadcastable event: a dotted type tag, a payload, and a
// creation timestamp. Immutable once constructed.
type Envelope struct {
	Event     string
	Payload   map[string]any
	CreatedAt time.Time
}

// NewEnvelope constructs an envelope stamped with the current time.
func NewEnvelope(event string, payload map[string]any) (*Envelope, error) {
	return NewEnvelopeAt(event, payload, time.Now().UTC())
}

// NewEnvelopeAt constructs an envelope with an explicit creation time.
// A zero createdAt falls back to the current time.
func NewEnvelopeAt(event string, payload map[string]any, createdAt time.Time) (*Envelope, error) {
	if event == "" {
		return nil, fmt.Errorf("envelope event must not be empty")
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &Envelope{Event: event, Payload: payload, CreatedAt: createdAt}, nil
}

type wireEnvelope struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	CreatedAt string         `json:"created_at"`
}

// Encode serializes the envelope to its wire JSON form. Payload values that
// are not JSON-native degrade to strings instead of failing the broadcast.
func (e *Envelope) Encode() ([]byte, error) {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	normalized := make(map[string]any, len(payload))
	for k, v := range payload {
		normalized[k] = normalizeValue(v)
	}

	data, err := json.Marshal(wireEnvelope{
		Event:     e.Event,
		Payload:   normalized,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return data, nil
}

// normalizeValue maps payload values onto JSON-representable ones.
// Timestamps become RFC 3339 strings; anything json.Marshal rejects is
// stringified.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, nested := range t {
			out[k] = normalizeValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, nested := range t {
			out[i] = normalizeValue(nested)
		}
		return out
	default:
		if _, err := json.Marshal(v); err != nil {
			return fmt.Sprint(v)
		}
		return v
	}
}
