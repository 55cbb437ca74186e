package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/handler"
	"github.com/kingrea/urbanwizard/internal/site"
	"github.com/kingrea/urbanwizard/internal/step"
	"github.com/kingrea/urbanwizard/internal/wizard"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	env := handler.Env{
		Site: site.Data{
			Name:        "Friche des Tanneries",
			SurfaceArea: 6000,
			Nature:      site.NatureFriche,
		},
		Calc:         calc.Default{},
		Clock:        &event.FixedClock{At: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC), Step: time.Second},
		Invalidation: handler.InvalidationDelete,
	}
	session, err := wizard.Open(context.Background(), "tanneries", handler.Default(), env)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	app, err := NewApp(session)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	if model != app {
		t.Fatalf("update returned a different model")
	}
	return cmd
}

func TestNewAppRequiresSession(t *testing.T) {
	if _, err := NewApp(nil); err == nil {
		t.Fatalf("expected error without session")
	}
}

func TestNextAndBackMoveThroughSteps(t *testing.T) {
	app := newTestApp(t)
	if got := app.session.CurrentStep(); got != step.Entry {
		t.Fatalf("expected entry step, got %s", got)
	}

	press(t, app, keyRunes("n"))
	if got := app.session.CurrentStep(); got != step.SpacesCategoriesSelection {
		t.Fatalf("expected selection step after next, got %s", got)
	}
	if app.err != nil {
		t.Fatalf("unexpected error: %v", app.err)
	}

	press(t, app, keyRunes("b"))
	if got := app.session.CurrentStep(); got != step.Entry {
		t.Fatalf("expected entry step after back, got %s", got)
	}
}

func TestActionsDependOnStepKind(t *testing.T) {
	app := newTestApp(t)
	if n := len(app.actions.Items()); n != 4 {
		t.Fatalf("informational step should offer 4 actions, got %d", n)
	}
	press(t, app, keyRunes("n"))
	if n := len(app.actions.Items()); n != 6 {
		t.Fatalf("answerable step should offer 6 actions, got %d", n)
	}
}

func TestEnterRunsSelectedAction(t *testing.T) {
	app := newTestApp(t)
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if got := app.session.CurrentStep(); got != step.SpacesCategoriesSelection {
		t.Fatalf("enter on the first action should go next, got %s", got)
	}
}

func TestAnswerEditorCompletesStep(t *testing.T) {
	app := newTestApp(t)
	press(t, app, keyRunes("n"))

	press(t, app, keyRunes("a"))
	if app.state != stateEditing {
		t.Fatalf("expected editing state, got %v", app.state)
	}
	if got := app.editor.Value(); got != "{}" {
		t.Fatalf("expected empty answers in editor, got %q", got)
	}

	app.editor.SetValue(`{"spacesCategories":["GREEN_SPACES"]}`)
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.err != nil {
		t.Fatalf("unexpected error: %v", app.err)
	}
	if app.state != stateStep {
		t.Fatalf("expected step state after saving, got %v", app.state)
	}
	if got := app.session.CurrentStep(); got != step.SpacesDevelopmentPlanIntroduction {
		t.Fatalf("single category should skip the surface split, got %s", got)
	}
	answers, ok := app.session.Answers(step.SpacesCategoriesSurfaceArea)
	if !ok {
		t.Fatalf("expected the surface split to be filled in")
	}
	split := answers.(step.SpacesCategoriesSurfaceAreaAnswers).SpacesCategoriesDistribution
	if split[step.GreenSpaces] != 6000 {
		t.Fatalf("expected the whole site as green spaces, got %v", split)
	}
}

func TestAnswerEditorKeepsInvalidInput(t *testing.T) {
	app := newTestApp(t)
	press(t, app, keyRunes("n"))
	press(t, app, keyRunes("a"))

	app.editor.SetValue(`{"spacesCategories":`)
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.err == nil {
		t.Fatalf("expected decode error")
	}
	if app.state != stateEditing {
		t.Fatalf("invalid input should keep the editor open")
	}
	if !strings.Contains(app.View(), "Error:") {
		t.Fatalf("view should show the error")
	}

	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateStep {
		t.Fatalf("esc should close the editor")
	}
	if got := app.session.CurrentStep(); got != step.SpacesCategoriesSelection {
		t.Fatalf("cancelled edit must not move, got %s", got)
	}
}

func TestAnswerIgnoredOnInformationalStep(t *testing.T) {
	app := newTestApp(t)
	press(t, app, keyRunes("a"))
	if app.state != stateStep {
		t.Fatalf("informational steps have no editor")
	}
	press(t, app, keyRunes("l"))
	if n := app.session.Log().Len(); n != 0 {
		t.Fatalf("load on informational step should not record events, got %d", n)
	}
}

func TestProjectDataView(t *testing.T) {
	app := newTestApp(t)
	press(t, app, keyRunes("d"))
	if app.state != stateProject {
		t.Fatalf("expected project state, got %v", app.state)
	}
	if !strings.Contains(app.View(), "esc: back") {
		t.Fatalf("project view should show the back hint")
	}
	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateStep {
		t.Fatalf("esc should return to the step")
	}
}

func TestQuitKeys(t *testing.T) {
	app := newTestApp(t)
	if cmd := press(t, app, keyRunes("q")); cmd == nil {
		t.Fatalf("q should quit")
	}
	if cmd := press(t, app, tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
}

func TestStepViewShowsSessionAndStep(t *testing.T) {
	app := newTestApp(t)
	press(t, app, keyRunes("n"))
	view := app.View()
	for _, want := range []string{"session tanneries", "Spaces categories selection", "No answers recorded yet."} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHumanizeStepID(t *testing.T) {
	if got := humanizeStepID(step.ExpensesInstallation); got != "Expenses installation" {
		t.Fatalf("got %q", got)
	}
}
