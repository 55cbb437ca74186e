package wizard

import (
	"fmt"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/handler"
	"github.com/kingrea/urbanwizard/internal/step"
)

// Command is a request from the calling application. It is one of LoadStep,
// CompleteStep, NavigateToNext and NavigateToPrevious.
type Command interface {
	Target() step.ID
	Name() string
}

// LoadStep synthesizes the default answers of an answerable step.
type LoadStep struct {
	StepID step.ID
}

// CompleteStep records answers and moves to the next step.
type CompleteStep struct {
	StepID  step.ID
	Answers step.Answers
}

// NavigateToNext moves forward from StepID.
type NavigateToNext struct {
	StepID step.ID
}

// NavigateToPrevious moves back from StepID.
type NavigateToPrevious struct {
	StepID step.ID
}

func (c LoadStep) Target() step.ID           { return c.StepID }
func (c CompleteStep) Target() step.ID       { return c.StepID }
func (c NavigateToNext) Target() step.ID     { return c.StepID }
func (c NavigateToPrevious) Target() step.ID { return c.StepID }

func (LoadStep) Name() string           { return "load" }
func (CompleteStep) Name() string       { return "complete" }
func (NavigateToNext) Name() string     { return "next" }
func (NavigateToPrevious) Name() string { return "previous" }

// Dispatch resolves the handler of the command's step and returns the events
// it produces. The log is left untouched; callers append the result.
func Dispatch(reg *handler.Registry, env handler.Env, log event.Log, cmd Command) ([]event.Event, error) {
	if reg == nil {
		return nil, fmt.Errorf("wizard: registry is required")
	}
	if cmd == nil {
		return nil, fmt.Errorf("wizard: command is required")
	}
	switch c := cmd.(type) {
	case LoadStep:
		h, err := reg.AnswerHandler(c.StepID)
		if err != nil {
			return nil, err
		}
		return h.Load(env, log), nil
	case CompleteStep:
		h, err := reg.AnswerHandler(c.StepID)
		if err != nil {
			return nil, err
		}
		return h.Complete(env, log, c.Answers)
	case NavigateToNext:
		nav, err := reg.Lookup(c.StepID)
		if err != nil {
			return nil, err
		}
		return nav.Next(env, log), nil
	case NavigateToPrevious:
		nav, err := reg.Lookup(c.StepID)
		if err != nil {
			return nil, err
		}
		return nav.Previous(env, log), nil
	default:
		return nil, fmt.Errorf("wizard: unsupported command %T", cmd)
	}
}
