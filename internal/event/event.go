// Package event defines the facts recorded while a user walks through the
// urban project wizard and the append-only log that holds them.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/urbanwizard/internal/step"
)

// Kind identifies the kind of a wizard event.
type Kind string

const (
	// KindAnswerSet records an answer for an answerable step.
	KindAnswerSet Kind = "ANSWER_SET"
	// KindAnswerDeleted retracts the answer of a step.
	KindAnswerDeleted Kind = "ANSWER_DELETED"
	// KindStepNavigated moves the wizard to a step.
	KindStepNavigated Kind = "STEP_NAVIGATED"
	// KindInvalidStep marks the answer of a step as stale without retracting it.
	KindInvalidStep Kind = "INVALID_STEP"
)

// Source identifies who produced an event.
type Source string

const (
	// SourceUser marks explicit user input.
	SourceUser Source = "user"
	// SourceSystem marks values synthesized by the wizard.
	SourceSystem Source = "system"
)

// Event is an immutable fact in the wizard log.
type Event struct {
	// ID uniquely identifies the event.
	ID string
	// Kind identifies the kind of event.
	Kind Kind
	// StepID is the step the event refers to.
	StepID step.ID
	// Timestamp is when the event was created.
	Timestamp time.Time
	// Source tells user input apart from synthesized values.
	Source Source
	// Payload is set for KindAnswerSet only.
	Payload step.Answers
}

// AnswerSet records answers for their step.
func AnswerSet(answers step.Answers, source Source, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      KindAnswerSet,
		StepID:    answers.StepID(),
		Timestamp: at,
		Source:    source,
		Payload:   answers,
	}
}

// AnswerDeleted retracts the current answer of id.
func AnswerDeleted(id step.ID, source Source, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      KindAnswerDeleted,
		StepID:    id,
		Timestamp: at,
		Source:    source,
	}
}

// StepNavigated moves the wizard to id.
func StepNavigated(id step.ID, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      KindStepNavigated,
		StepID:    id,
		Timestamp: at,
		Source:    SourceUser,
	}
}

// InvalidStep marks the answer of id as stale.
func InvalidStep(id step.ID, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      KindInvalidStep,
		StepID:    id,
		Timestamp: at,
		Source:    SourceSystem,
	}
}
