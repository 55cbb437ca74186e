// Package formstate resolves the current state of a wizard session from its
// event log. Every function is a pure read over the log; nothing is cached.
package formstate

import (
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

// latestAnswerEvent returns the highest ranked AnswerSet or AnswerDeleted
// event for id. A deletion only hides answers ranked below it.
func latestAnswerEvent(log event.Log, id step.ID) (event.Event, bool) {
	return log.Latest(func(e event.Event) bool {
		return e.StepID == id && (e.Kind == event.KindAnswerSet || e.Kind == event.KindAnswerDeleted)
	})
}

// LatestAnswer returns the current answer of id, if any.
func LatestAnswer(log event.Log, id step.ID) (step.Answers, bool) {
	evt, ok := latestAnswerEvent(log, id)
	if !ok || evt.Kind != event.KindAnswerSet || evt.Payload == nil {
		return nil, false
	}
	return evt.Payload, true
}

// Answer returns the current answer of the step bound to T.
func Answer[T step.Answers](log event.Log) (T, bool) {
	var zero T
	answers, ok := LatestAnswer(log, zero.StepID())
	if !ok {
		return zero, false
	}
	typed, ok := answers.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// LatestEventOfKind returns the highest ranked event of kind.
func LatestEventOfKind(log event.Log, kind event.Kind) (event.Event, bool) {
	return log.Latest(func(e event.Event) bool { return e.Kind == kind })
}

// CurrentStep returns the step of the latest navigation, or the entry step
// when the session has not navigated yet.
func CurrentStep(log event.Log) step.ID {
	evt, ok := LatestEventOfKind(log, event.KindStepNavigated)
	if !ok {
		return step.Entry
	}
	return evt.StepID
}

// HasLastAnswerFromSystem reports whether the current answer of id was
// synthesized rather than entered by the user.
func HasLastAnswerFromSystem(log event.Log, id step.ID) bool {
	evt, ok := latestAnswerEvent(log, id)
	return ok && evt.Kind == event.KindAnswerSet && evt.Source == event.SourceSystem
}

// IsStale reports whether the current answer of id has been marked invalid
// after it was recorded.
func IsStale(log event.Log, id step.ID) bool {
	if _, ok := LatestAnswer(log, id); !ok {
		return false
	}
	evt, ok := log.Latest(func(e event.Event) bool {
		return e.StepID == id && (e.Kind == event.KindAnswerSet || e.Kind == event.KindInvalidStep)
	})
	return ok && evt.Kind == event.KindInvalidStep
}
