package handler

import (
	"fmt"
	"sort"

	"github.com/kingrea/urbanwizard/internal/step"
)

// Registry maps every step to its handler. A registry is built once, checked
// for exhaustiveness and never modified afterwards.
type Registry struct {
	handlers map[step.ID]Navigator
}

// NewRegistry builds a registry from handlers. It fails unless every step has
// exactly one handler and answerable steps have answer handlers.
func NewRegistry(handlers ...Navigator) (*Registry, error) {
	r := &Registry{handlers: make(map[step.ID]Navigator, len(handlers))}
	for _, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler: nil handler")
		}
		id := h.Step()
		if !id.Valid() {
			return nil, fmt.Errorf("%w %s", ErrUnknownStep, id)
		}
		if _, exists := r.handlers[id]; exists {
			return nil, fmt.Errorf("handler: %s already registered", id)
		}
		_, answers := h.(AnswerHandler)
		if id.IsAnswerable() && !answers {
			return nil, fmt.Errorf("handler: %s is answerable but its handler cannot record answers", id)
		}
		if id.IsInformational() && answers {
			return nil, fmt.Errorf("handler: %s is informational but its handler records answers", id)
		}
		r.handlers[id] = h
	}
	for _, id := range step.All() {
		if _, ok := r.handlers[id]; !ok {
			return nil, fmt.Errorf("handler: no handler registered for %s", id)
		}
	}
	return r, nil
}

// MustNewRegistry panics if the registry is incomplete.
func MustNewRegistry(handlers ...Navigator) *Registry {
	r, err := NewRegistry(handlers...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry of the urban project wizard.
func Default() *Registry {
	return MustNewRegistry(Handlers()...)
}

// Handlers returns a fresh handler for every step of the wizard.
func Handlers() []Navigator {
	var all []Navigator
	all = append(all, spacesHandlers()...)
	all = append(all, soilsHandlers()...)
	all = append(all, buildingsHandlers()...)
	all = append(all, stakeholdersHandlers()...)
	all = append(all, resaleHandlers()...)
	all = append(all, expensesHandlers()...)
	all = append(all, revenueHandlers()...)
	all = append(all, closingHandlers()...)
	return all
}

// Lookup returns the handler of id.
func (r *Registry) Lookup(id step.ID) (Navigator, error) {
	h, ok := r.handlers[id]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownStep, id)
	}
	return h, nil
}

// AnswerHandler returns the handler of an answerable step.
func (r *Registry) AnswerHandler(id step.ID) (AnswerHandler, error) {
	h, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	answers, ok := h.(AnswerHandler)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAnswerable, id)
	}
	return answers, nil
}

// IDs returns a sorted list of registered steps.
func (r *Registry) IDs() []step.ID {
	ids := make([]step.ID, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
