package event

import (
	"encoding/json"
	"slices"
	"time"
)

// Log is an ordered, append-only sequence of events. The zero value is an
// empty log. A Log is never modified in place: Append returns a new value.
type Log struct {
	events []Event
}

// NewLog builds a log holding events in order.
func NewLog(events ...Event) Log {
	return Log{events: slices.Clone(events)}
}

// Append returns a log extended with events. The receiver is unchanged.
func (l Log) Append(events ...Event) Log {
	if len(events) == 0 {
		return l
	}
	next := make([]Event, 0, len(l.events)+len(events))
	next = append(next, l.events...)
	next = append(next, events...)
	return Log{events: next}
}

// Len returns the number of events.
func (l Log) Len() int { return len(l.events) }

// Events returns a copy of the events in log order.
func (l Log) Events() []Event { return slices.Clone(l.events) }

// Since returns a copy of the events appended after the first n.
func (l Log) Since(n int) []Event {
	if n >= len(l.events) {
		return nil
	}
	return slices.Clone(l.events[n:])
}

// Last returns the most recently appended event.
func (l Log) Last() (Event, bool) {
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[len(l.events)-1], true
}

// LastTimestamp returns the largest timestamp recorded so far.
func (l Log) LastTimestamp() time.Time {
	var latest time.Time
	for _, evt := range l.events {
		if evt.Timestamp.After(latest) {
			latest = evt.Timestamp
		}
	}
	return latest
}

// Ranked returns a copy of the log ordered from most to least recent.
// Events sharing a timestamp keep reverse log order, so the later append
// ranks first.
func (l Log) Ranked() []Event {
	ranked := make([]Event, len(l.events))
	for i, evt := range l.events {
		ranked[len(l.events)-1-i] = evt
	}
	slices.SortStableFunc(ranked, func(a, b Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return ranked
}

// Latest returns the highest ranked event accepted by match.
func (l Log) Latest(match func(Event) bool) (Event, bool) {
	var (
		best  Event
		found bool
	)
	for i := len(l.events) - 1; i >= 0; i-- {
		evt := l.events[i]
		if !match(evt) {
			continue
		}
		if !found || evt.Timestamp.After(best.Timestamp) {
			best = evt
			found = true
		}
	}
	return best, found
}

func (l Log) MarshalJSON() ([]byte, error) {
	if l.events == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.events)
}

func (l *Log) UnmarshalJSON(data []byte) error {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return err
	}
	l.events = events
	return nil
}
