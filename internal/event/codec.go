package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kingrea/urbanwizard/internal/step"
)

type record struct {
	ID        string          `json:"id"`
	Type      Kind            `json:"type"`
	StepID    step.ID         `json:"stepId"`
	Timestamp time.Time       `json:"timestamp"`
	Source    Source          `json:"source"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	rec := record{
		ID:        e.ID,
		Type:      e.Kind,
		StepID:    e.StepID,
		Timestamp: e.Timestamp,
		Source:    e.Source,
	}
	if e.Payload != nil {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("event: encode %s payload: %w", e.StepID, err)
		}
		rec.Payload = payload
	}
	return json.Marshal(rec)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	decoded, err := FromRecord(rec.ID, rec.Type, rec.StepID, rec.Timestamp, rec.Source, rec.Payload)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// FromRecord rebuilds an event from its stored columns. The payload is only
// decoded for answer events and is typed by the step identifier.
func FromRecord(id string, kind Kind, stepID step.ID, at time.Time, source Source, payload []byte) (Event, error) {
	switch kind {
	case KindAnswerSet, KindAnswerDeleted, KindStepNavigated, KindInvalidStep:
	default:
		return Event{}, fmt.Errorf("event: unknown kind %q", kind)
	}
	if !stepID.Valid() {
		return Event{}, fmt.Errorf("event: unknown step %q", stepID)
	}
	evt := Event{
		ID:        id,
		Kind:      kind,
		StepID:    stepID,
		Timestamp: at,
		Source:    source,
	}
	if kind == KindAnswerSet {
		answers, err := step.Decode(stepID, payload)
		if err != nil {
			return Event{}, fmt.Errorf("event: %w", err)
		}
		evt.Payload = answers
	}
	return evt, nil
}
