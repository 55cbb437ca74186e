package handler

import (
	"time"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/step"
)

// tx collects the events of one handler operation. Its log is the input log
// extended with the events produced so far, so later reads in the same
// operation observe earlier writes.
type tx struct {
	env  Env
	log  event.Log
	base int
	last time.Time
}

func begin(env Env, log event.Log) *tx {
	return &tx{env: env, log: log, base: log.Len(), last: log.LastTimestamp()}
}

func (t *tx) now() time.Time {
	at := event.NotBefore(t.env.clock().Now(), t.last)
	t.last = at
	return at
}

func (t *tx) emit(evt event.Event) {
	t.log = t.log.Append(evt)
}

func (t *tx) answer(answers step.Answers, source event.Source) {
	t.emit(event.AnswerSet(answers, source, t.now()))
}

func (t *tx) deleteAnswer(id step.ID) {
	t.emit(event.AnswerDeleted(id, event.SourceSystem, t.now()))
}

func (t *tx) navigate(id step.ID) {
	t.emit(event.StepNavigated(id, t.now()))
}

// invalidate retracts the system answers of ids according to the
// invalidation mode. User answers are left untouched.
func (t *tx) invalidate(ids ...step.ID) {
	for _, id := range ids {
		if !formstate.HasLastAnswerFromSystem(t.log, id) {
			continue
		}
		if t.env.Invalidation == InvalidationMarkStale {
			if !formstate.IsStale(t.log, id) {
				t.emit(event.InvalidStep(id, t.now()))
			}
			continue
		}
		t.deleteAnswer(id)
	}
}

// ensureSystemAnswer records answers as a system default unless the step
// already holds an equal answer. It reports whether an event was appended.
func (t *tx) ensureSystemAnswer(answers step.Answers) bool {
	if current, ok := formstate.LatestAnswer(t.log, answers.StepID()); ok && sameAnswers(current, answers) {
		return false
	}
	t.answer(answers, event.SourceSystem)
	return true
}

func (t *tx) events() []event.Event {
	return t.log.Since(t.base)
}
