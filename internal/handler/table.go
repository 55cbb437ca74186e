package handler

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/step"
)

// route picks a target step from the recorded answers.
type route func(env Env, log event.Log) step.ID

func to(id step.ID) route {
	return func(Env, event.Log) step.ID { return id }
}

type infoHandler struct {
	id       step.ID
	previous route
	next     route
}

func (h infoHandler) Step() step.ID { return h.id }

func (h infoHandler) Previous(env Env, log event.Log) []event.Event {
	return navigate(env, log, h.previous)
}

func (h infoHandler) Next(env Env, log event.Log) []event.Event {
	return navigate(env, log, h.next)
}

func navigate(env Env, log event.Log, target route) []event.Event {
	t := begin(env, log)
	t.navigate(target(env, log))
	return t.events()
}

// answerHandler is the function table of an answerable step. Only id,
// previous and next are required.
type answerHandler struct {
	id       step.ID
	previous route
	next     route

	// defaults computes the system answer loaded when none is recorded.
	defaults func(env Env, log event.Log) (step.Answers, bool)
	// validate rejects answers before anything is recorded.
	validate func(answers step.Answers) error
	// prepare fills derived fields of the submitted answers.
	prepare func(env Env, log event.Log, answers step.Answers) step.Answers
	// onUpdate runs when a recorded answer is replaced by a different one.
	onUpdate func(t *tx, previous, current step.Answers)
	// afterRecord runs on every completion once the answer is recorded.
	afterRecord func(t *tx, current step.Answers)
}

func (h answerHandler) Step() step.ID { return h.id }

func (h answerHandler) Previous(env Env, log event.Log) []event.Event {
	return navigate(env, log, h.previous)
}

func (h answerHandler) Next(env Env, log event.Log) []event.Event {
	return navigate(env, log, h.next)
}

func (h answerHandler) Answers(log event.Log) (step.Answers, bool) {
	return formstate.LatestAnswer(log, h.id)
}

func (h answerHandler) Load(env Env, log event.Log) []event.Event {
	if _, ok := h.Answers(log); ok && !formstate.IsStale(log, h.id) {
		return nil
	}
	if h.defaults == nil {
		return nil
	}
	answers, ok := h.defaults(env, log)
	if !ok {
		return nil
	}
	t := begin(env, log)
	t.answer(answers, event.SourceSystem)
	return t.events()
}

func (h answerHandler) Complete(env Env, log event.Log, answers step.Answers) ([]event.Event, error) {
	answers = step.Deref(answers)
	if answers == nil {
		return nil, fmt.Errorf("%w: %s requires answers", ErrInvalidAnswer, h.id)
	}
	if answers.StepID() != h.id {
		return nil, fmt.Errorf("%w: got %s answers for %s", ErrAnswerMismatch, answers.StepID(), h.id)
	}
	if h.validate != nil {
		if err := h.validate(answers); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAnswer, h.id, err)
		}
	}
	if h.prepare != nil {
		answers = h.prepare(env, log, answers)
	}

	t := begin(env, log)
	h.record(t, answers)
	if h.afterRecord != nil {
		h.afterRecord(t, answers)
	}
	t.navigate(h.next(env, t.log))
	return t.events(), nil
}

// record appends the user answer unless an equal, still valid answer is
// already recorded.
func (h answerHandler) record(t *tx, answers step.Answers) {
	previous, had := formstate.LatestAnswer(t.log, h.id)
	if had && sameAnswers(previous, answers) && !formstate.IsStale(t.log, h.id) {
		return
	}
	t.answer(answers, event.SourceUser)
	if had && h.onUpdate != nil && !sameAnswers(previous, answers) {
		h.onUpdate(t, previous, answers)
	}
}

var answerComparison = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.SortSlices(func(a, b step.SpaceCategory) bool { return a < b }),
	cmpopts.SortSlices(func(a, b step.Expense) bool {
		if a.Purpose != b.Purpose {
			return a.Purpose < b.Purpose
		}
		return a.Amount < b.Amount
	}),
	cmpopts.SortSlices(func(a, b step.Revenue) bool {
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Amount < b.Amount
	}),
}

// sameAnswers compares payloads structurally. Slice order is ignored and
// empty collections equal missing ones.
func sameAnswers(a, b step.Answers) bool {
	return cmp.Equal(step.Deref(a), step.Deref(b), answerComparison...)
}
