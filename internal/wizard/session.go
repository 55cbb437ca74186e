package wizard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/handler"
	"github.com/kingrea/urbanwizard/internal/step"
)

// LogStore persists the event log of sessions.
type LogStore interface {
	Load(ctx context.Context, sessionID string) (event.Log, error)
	Append(ctx context.Context, sessionID string, events ...event.Event) error
}

// Session is a single writer over one wizard log.
type Session struct {
	id       string
	registry *handler.Registry
	env      handler.Env
	store    LogStore
	logger   *zap.Logger
	log      event.Log
}

// Option customizes a session.
type Option func(*Session)

// WithLogger routes command logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore persists events to store before they reach the in-memory log.
// The session log is loaded from store when the session opens.
func WithStore(store LogStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// Open starts or resumes the session id.
func Open(ctx context.Context, id string, reg *handler.Registry, env handler.Env, opts ...Option) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("wizard: session id is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("wizard: registry is required")
	}
	s := &Session{
		id:       id,
		registry: reg,
		env:      env,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.env.Calc == nil {
		s.env.Calc = calc.Default{}
	}
	if s.env.Clock == nil {
		s.env.Clock = event.SystemClock{}
	}
	if s.store != nil {
		log, err := s.store.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("wizard: load session %s: %w", id, err)
		}
		s.log = log
	}
	s.logger = s.logger.With(zap.String("session", id))
	s.logger.Debug("session opened",
		zap.Int("events", s.log.Len()),
		zap.Stringer("step", s.CurrentStep()))
	return s, nil
}

// Apply dispatches cmd and appends the resulting events.
func (s *Session) Apply(ctx context.Context, cmd Command) ([]event.Event, error) {
	if cmd == nil {
		return nil, fmt.Errorf("wizard: command is required")
	}
	events, err := Dispatch(s.registry, s.env, s.log, cmd)
	if err != nil {
		s.logger.Warn("command rejected",
			zap.String("command", cmd.Name()),
			zap.Stringer("step", cmd.Target()),
			zap.Error(err))
		return nil, err
	}
	if len(events) > 0 && s.store != nil {
		if err := s.store.Append(ctx, s.id, events...); err != nil {
			return nil, fmt.Errorf("wizard: persist %s: %w", cmd.Name(), err)
		}
	}
	s.log = s.log.Append(events...)
	s.logger.Info("command applied",
		zap.String("command", cmd.Name()),
		zap.Stringer("step", cmd.Target()),
		zap.Int("events", len(events)),
		zap.Stringer("current", s.CurrentStep()))
	return events, nil
}

// Next moves forward from the current step.
func (s *Session) Next(ctx context.Context) ([]event.Event, error) {
	return s.Apply(ctx, NavigateToNext{StepID: s.CurrentStep()})
}

// Previous moves back from the current step.
func (s *Session) Previous(ctx context.Context) ([]event.Event, error) {
	return s.Apply(ctx, NavigateToPrevious{StepID: s.CurrentStep()})
}

// Load synthesizes defaults for the current step.
func (s *Session) Load(ctx context.Context) ([]event.Event, error) {
	return s.Apply(ctx, LoadStep{StepID: s.CurrentStep()})
}

// Complete answers the current step.
func (s *Session) Complete(ctx context.Context, answers step.Answers) ([]event.Event, error) {
	return s.Apply(ctx, CompleteStep{StepID: s.CurrentStep(), Answers: answers})
}

func (s *Session) ID() string { return s.id }

// Log returns the session log. The returned value is not affected by later
// commands.
func (s *Session) Log() event.Log { return s.log }

func (s *Session) CurrentStep() step.ID { return formstate.CurrentStep(s.log) }

// Answers returns the current answers of id.
func (s *Session) Answers(id step.ID) (step.Answers, bool) {
	return formstate.LatestAnswer(s.log, id)
}

// AllAnswers returns the current answers of every answered step.
func (s *Session) AllAnswers() map[step.ID]step.Answers {
	return formstate.AllAnswers(s.log)
}

// ProjectData flattens the answers into the project projection.
func (s *Session) ProjectData() formstate.ProjectData {
	return formstate.BuildProjectData(s.log, s.env.Calc)
}

// Env returns the handler environment of the session.
func (s *Session) Env() handler.Env { return s.env }
