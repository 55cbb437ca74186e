// internal/tui/app.go
//
// This is the terminal front-end of the urban project wizard.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the wizard session plus what is on screen
// 2. Update: applies key presses as wizard commands
// 3. View: renders the current step, its answers and the available actions
//
// Every action goes through the session, so the event log stays the only state.

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
	"github.com/kingrea/urbanwizard/internal/wizard"
)

// appState represents which "screen" we're on
type appState int

const (
	stateStep    appState = iota // Current step with its actions
	stateEditing                 // Editing the answers of the current step as JSON
	stateProject                 // Project data projection
)

const (
	actionNext     = "Next"
	actionPrevious = "Back"
	actionLoad     = "Load defaults"
	actionAnswer   = "Answer"
	actionProject  = "Project data"
	actionExit     = "Exit"
)

var (
	accentColor = lipgloss.Color("#5B8DEF")
	mutedColor  = lipgloss.Color("#888888")
	bodyColor   = lipgloss.Color("#AAAAAA")
	borderColor = lipgloss.Color("#444444")
	errorColor  = lipgloss.Color("#FF6B6B")
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithContext sets the context passed to session commands.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	ctx     context.Context
	session *wizard.Session

	actions list.Model
	editor  textinput.Model

	statusMsg string
	err       error

	width  int
	height int
}

// menuItem implements list.Item interface for the action menu
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates an App driving session.
func NewApp(session *wizard.Session, opts ...AppOption) (*App, error) {
	if session == nil {
		return nil, fmt.Errorf("tui: session is required")
	}
	actions := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	actions.Title = "⬡ URBAN PROJECT"
	actions.SetShowStatusBar(false)
	actions.SetFilteringEnabled(false)

	editor := textinput.New()
	editor.Prompt = "answers: "
	editor.CharLimit = 0

	app := &App{
		state:   stateStep,
		ctx:     context.Background(),
		session: session,
		actions: actions,
		editor:  editor,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refreshActions()
	return app, nil
}

// buildActions lists what can be done from id.
func buildActions(id step.ID) []list.Item {
	items := []list.Item{
		menuItem{title: actionNext, desc: "Continue to the next step"},
		menuItem{title: actionPrevious, desc: "Return to the previous step"},
	}
	if id.IsAnswerable() {
		items = append(items,
			menuItem{title: actionAnswer, desc: "Record answers for this step"},
			menuItem{title: actionLoad, desc: "Fill in computed defaults"},
		)
	}
	items = append(items,
		menuItem{title: actionProject, desc: "Show the project built from the answers"},
		menuItem{title: actionExit, desc: "Quit the wizard"},
	)
	return items
}

func (a *App) refreshActions() {
	a.actions.SetItems(buildActions(a.session.CurrentStep()))
	a.actions.Select(0)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.actions.SetSize(max(0, msg.Width/2-6), max(0, msg.Height-10))
		a.editor.Width = max(20, msg.Width-20)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case stateEditing:
			return a.updateEditor(msg)
		case stateProject:
			switch msg.String() {
			case "esc", "q", "enter":
				a.state = stateStep
			}
			return a, nil
		}

		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "n", "right":
			return a.runAction(actionNext)
		case "b", "left":
			return a.runAction(actionPrevious)
		case "a":
			return a.runAction(actionAnswer)
		case "l":
			return a.runAction(actionLoad)
		case "d":
			return a.runAction(actionProject)
		case "enter":
			if item, ok := a.actions.SelectedItem().(menuItem); ok {
				return a.runAction(item.title)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	if a.state == stateStep {
		a.actions, cmd = a.actions.Update(msg)
	}
	return a, cmd
}

func (a *App) runAction(action string) (tea.Model, tea.Cmd) {
	current := a.session.CurrentStep()
	switch action {
	case actionNext:
		a.apply(a.session.Next(a.ctx))
	case actionPrevious:
		a.apply(a.session.Previous(a.ctx))
	case actionLoad:
		if !current.IsAnswerable() {
			return a, nil
		}
		events, err := a.session.Load(a.ctx)
		a.apply(events, err)
		if err == nil && len(events) == 0 {
			a.statusMsg = "Nothing to compute for this step"
		}
	case actionAnswer:
		if !current.IsAnswerable() {
			return a, nil
		}
		return a.openEditor()
	case actionProject:
		a.state = stateProject
	case actionExit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) apply(events []event.Event, err error) {
	if err != nil {
		a.err = err
		return
	}
	a.err = nil
	a.statusMsg = fmt.Sprintf("%d event(s) recorded", len(events))
	a.refreshActions()
}

func (a *App) openEditor() (tea.Model, tea.Cmd) {
	value := "{}"
	if answers, ok := a.session.Answers(a.session.CurrentStep()); ok {
		if encoded, err := json.Marshal(answers); err == nil {
			value = string(encoded)
		}
	}
	a.editor.SetValue(value)
	a.editor.CursorEnd()
	a.state = stateEditing
	a.err = nil
	return a, a.editor.Focus()
}

func (a *App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.editor.Blur()
		a.state = stateStep
		return a, nil
	case "enter":
		id := a.session.CurrentStep()
		answers, err := step.Decode(id, []byte(a.editor.Value()))
		if err != nil {
			a.err = err
			return a, nil
		}
		events, err := a.session.Complete(a.ctx, answers)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.editor.Blur()
		a.state = stateStep
		a.apply(events, nil)
		return a, nil
	}
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

// View renders the current screen.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render(fmt.Sprintf("Urban project wizard · session %s", a.session.ID()))

	var body string
	switch a.state {
	case stateEditing:
		body = a.renderEditor()
	case stateProject:
		body = a.renderProject()
	default:
		body = a.renderStep()
	}

	lines := []string{header, body}
	if a.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(errorColor).Render("Error: "+a.err.Error()))
	} else if a.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(mutedColor).Render(a.statusMsg))
	}
	lines = append(lines, a.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderStep() string {
	id := a.session.CurrentStep()
	kind := "informational"
	if id.IsAnswerable() {
		kind = "answerable"
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render(humanizeStepID(id))
	meta := lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("%s · %s · %d events", id, kind, a.session.Log().Len()))

	details := []string{title, meta}
	if id.IsAnswerable() {
		details = append(details, "", a.renderAnswers(id))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)
	left := box.Width(max(30, a.width/2-4)).Render(lipgloss.JoinVertical(lipgloss.Left, details...))
	right := box.Render(a.actions.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a *App) renderAnswers(id step.ID) string {
	answers, ok := a.session.Answers(id)
	if !ok {
		return lipgloss.NewStyle().Foreground(mutedColor).Render("No answers recorded yet.")
	}
	encoded, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return err.Error()
	}
	return lipgloss.NewStyle().Foreground(bodyColor).Render(string(encoded))
}

func (a *App) renderEditor() string {
	id := a.session.CurrentStep()
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Answer · " + humanizeStepID(id))
	hint := lipgloss.NewStyle().Foreground(mutedColor).Render("Answers are a JSON object, for example " + exampleAnswers(id))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, hint, "", a.editor.View()))
}

func (a *App) renderProject() string {
	encoded, err := json.MarshalIndent(a.session.ProjectData(), "", "  ")
	content := string(encoded)
	if err != nil {
		content = err.Error()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Foreground(bodyColor).
		Padding(0, 1).
		Render(content)
}

func (a *App) renderFooter() string {
	var hint string
	switch a.state {
	case stateEditing:
		hint = "enter: save  esc: cancel"
	case stateProject:
		hint = "esc: back"
	default:
		hint = "n: next  b: back  a: answer  l: load defaults  d: project  q: quit"
	}
	return lipgloss.NewStyle().Foreground(mutedColor).Render(hint)
}

// humanizeStepID turns URBAN_PROJECT_SPACES_CATEGORIES_SELECTION into
// "Spaces categories selection".
func humanizeStepID(id step.ID) string {
	name := strings.TrimPrefix(string(id), "URBAN_PROJECT_")
	name = strings.ToLower(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// exampleAnswers renders the empty payload of id so users see the field names.
func exampleAnswers(id step.ID) string {
	answers, err := step.NewAnswers(id)
	if err != nil {
		return "{}"
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
