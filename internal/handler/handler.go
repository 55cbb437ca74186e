// Package handler implements the per-step rules of the urban project wizard.
//
// Every step has exactly one handler. Handlers never modify the log they are
// given: each operation returns the events it produced and the caller
// appends them. Informational steps only navigate; answerable steps also load
// defaults and record answers.
package handler

import (
	"errors"

	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/site"
	"github.com/kingrea/urbanwizard/internal/step"
)

var (
	// ErrUnknownStep is returned when no handler is registered for a step.
	ErrUnknownStep = errors.New("handler: unknown step")
	// ErrNotAnswerable is returned when answers are sent to an informational step.
	ErrNotAnswerable = errors.New("handler: step is not answerable")
	// ErrAnswerMismatch is returned when answers belong to another step.
	ErrAnswerMismatch = errors.New("handler: answers do not match step")
	// ErrInvalidAnswer is returned when answers hold an unsupported value.
	ErrInvalidAnswer = errors.New("handler: invalid answer")
)

// Invalidation selects how dependent system answers are retracted when an
// upstream answer changes.
type Invalidation string

const (
	// InvalidationDelete appends AnswerDeleted for dependent system answers.
	InvalidationDelete Invalidation = "delete"
	// InvalidationMarkStale appends InvalidStep for dependent system answers.
	InvalidationMarkStale Invalidation = "mark-stale"
)

// Valid reports whether the mode is supported.
func (i Invalidation) Valid() bool {
	return i == InvalidationDelete || i == InvalidationMarkStale
}

// Env carries the read-only inputs shared by every handler call.
type Env struct {
	Site         site.Data
	Calc         calc.Calculator
	Clock        event.Clock
	Invalidation Invalidation
}

func (e Env) calc() calc.Calculator {
	if e.Calc == nil {
		return calc.Default{}
	}
	return e.Calc
}

func (e Env) clock() event.Clock {
	if e.Clock == nil {
		return event.SystemClock{}
	}
	return e.Clock
}

// Navigator is implemented by every step handler.
type Navigator interface {
	Step() step.ID
	Previous(env Env, log event.Log) []event.Event
	Next(env Env, log event.Log) []event.Event
}

// AnswerHandler is implemented by handlers of answerable steps.
type AnswerHandler interface {
	Navigator
	// Answers returns the current answer of the step.
	Answers(log event.Log) (step.Answers, bool)
	// Load synthesizes a system default when the step has no usable answer.
	Load(env Env, log event.Log) []event.Event
	// Complete records answers, cascades invalidation and moves to the next step.
	Complete(env Env, log event.Log, answers step.Answers) ([]event.Event, error)
}
