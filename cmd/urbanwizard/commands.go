package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/export"
	"github.com/kingrea/urbanwizard/internal/step"
	"github.com/kingrea/urbanwizard/internal/store"
	"github.com/kingrea/urbanwizard/internal/tui"
	"github.com/kingrea/urbanwizard/internal/wizard"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .urbanwizard directory in the project",
	Long: `Creates .urbanwizard/ with its default config.yaml and the logs, sessions,
sites and state directories. Running it again keeps the existing config.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current step of the session",
	Args:  cobra.NoArgs,
	RunE:  withSession(showStatus),
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next step",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, session *wizard.Session, _ []string) error {
		events, err := session.Next(ctx)
		return report(cmd.OutOrStdout(), session, events, err)
	}),
}

var previousCmd = &cobra.Command{
	Use:     "previous",
	Aliases: []string{"back"},
	Short:   "Move back to the previous step",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, session *wizard.Session, _ []string) error {
		events, err := session.Previous(ctx)
		return report(cmd.OutOrStdout(), session, events, err)
	}),
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fill in computed defaults for the current step",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, session *wizard.Session, _ []string) error {
		events, err := session.Load(ctx)
		return report(cmd.OutOrStdout(), session, events, err)
	}),
}

var completeCmd = &cobra.Command{
	Use:   "complete [answers-json | @file]",
	Short: "Record answers for the current step and move on",
	Long: `Records a JSON answers object for the current step, then navigates.

Example:
  urbanwizard complete '{"spacesCategories":["GREEN_SPACES","PUBLIC_SPACES"]}'
  urbanwizard complete @answers.json`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(runComplete),
}

var answersCmd = &cobra.Command{
	Use:   "answers [step]",
	Short: "Print the recorded answers",
	Long: `Prints the answers of every step, or of one step. The URBAN_PROJECT_
prefix of the step may be omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(showAnswers),
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Print the project data built from the answers",
	Args:  cobra.NoArgs,
	RunE: withSession(func(_ context.Context, cmd *cobra.Command, session *wizard.Session, _ []string) error {
		return writeJSON(cmd.OutOrStdout(), session.ProjectData())
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the event log of the session",
	Args:  cobra.NoArgs,
	RunE:  withSession(showHistory),
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the project as a Markdown document",
	Long: `Writes the project built from the answers to a Markdown document with YAML
frontmatter. The default path is .urbanwizard/exports/<session>.md.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(runExport),
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

var useCmd = &cobra.Command{
	Use:   "use [session]",
	Short: "Make a session the default one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetSession(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Using session %s\n", cfg.Session())
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the event log of the session",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive wizard",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, _ *cobra.Command, session *wizard.Session, _ []string) error {
		app, err := tui.NewApp(session, tui.WithContext(ctx))
		if err != nil {
			return err
		}
		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	}),
}

type sessionFunc func(ctx context.Context, cmd *cobra.Command, session *wizard.Session, args []string) error

// withSession opens the selected session around fn and closes the store
// afterwards.
func withSession(fn sessionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		session, s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, cmd, session, args)
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized %s\n", cfg.WizardProjectDir)
	fmt.Fprintf(out, "  config:  %s\n", cfg.ProjectConfigPath())
	fmt.Fprintf(out, "  store:   %s (%s)\n", cfg.StoreBackend(), cfg.StorePath())
	fmt.Fprintf(out, "  session: %s\n", cfg.Session())
	logger.Info("wizard directory initialized", zap.String("dir", cfg.WizardProjectDir))
	return nil
}

func showStatus(_ context.Context, cmd *cobra.Command, session *wizard.Session, _ []string) error {
	out := cmd.OutOrStdout()
	current := session.CurrentStep()
	kind := "informational"
	if current.IsAnswerable() {
		kind = "answerable"
	}
	fmt.Fprintf(out, "Session:  %s\n", session.ID())
	fmt.Fprintf(out, "Step:     %s (%s)\n", current, kind)
	fmt.Fprintf(out, "Events:   %d\n", session.Log().Len())
	fmt.Fprintf(out, "Answered: %d step(s)\n", len(session.AllAnswers()))
	if site := session.Env().Site; site.Name != "" {
		fmt.Fprintf(out, "Site:     %s (%.0f m²)\n", site.Name, site.SurfaceArea)
	}
	fmt.Fprintf(out, "Export:   %s\n", export.Check(cfg.ExportPath(session.ID()), session.Log()).State)
	return nil
}

func showHistory(_ context.Context, cmd *cobra.Command, session *wizard.Session, _ []string) error {
	out := cmd.OutOrStdout()
	for i, e := range session.Log().Events() {
		fmt.Fprintf(out, "%4d  %s  %-14s %-6s %s\n", i+1, e.Timestamp.Format(time.RFC3339), e.Kind, e.Source, e.StepID)
	}
	return nil
}

func runExport(_ context.Context, cmd *cobra.Command, session *wizard.Session, args []string) error {
	path := cfg.ExportPath(session.ID())
	if len(args) == 1 {
		path = args[0]
	}
	doc, meta, err := export.Build(session, time.Now())
	if err != nil {
		return err
	}
	if err := export.Write(path, doc); err != nil {
		return err
	}
	logger.Info("project exported",
		zap.String("session", meta.Session),
		zap.String("path", path),
		zap.String("checksum", meta.Checksum),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d events) to %s\n", meta.Session, meta.Events, path)
	return nil
}

func runComplete(ctx context.Context, cmd *cobra.Command, session *wizard.Session, args []string) error {
	raw, err := readAnswers(args[0])
	if err != nil {
		return err
	}
	answers, err := step.Decode(session.CurrentStep(), raw)
	if err != nil {
		return err
	}
	events, err := session.Complete(ctx, answers)
	return report(cmd.OutOrStdout(), session, events, err)
}

// readAnswers returns the JSON given inline, or the content of the file
// named after '@'.
func readAnswers(arg string) ([]byte, error) {
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read answers: %w", err)
		}
		return raw, nil
	}
	return []byte(arg), nil
}

func showAnswers(_ context.Context, cmd *cobra.Command, session *wizard.Session, args []string) error {
	if len(args) == 0 {
		all := session.AllAnswers()
		out := make(map[string]step.Answers, len(all))
		for id, answers := range all {
			out[string(id)] = answers
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}
	id, err := step.Parse(args[0])
	if err != nil {
		return err
	}
	answers, ok := session.Answers(id)
	if !ok {
		return fmt.Errorf("no answers recorded for %s", id)
	}
	return writeJSON(cmd.OutOrStdout(), answers)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	ids, err := s.Sessions(cmd.Context())
	if err != nil {
		return err
	}
	current := currentSessionID()
	out := cmd.OutOrStdout()
	for _, id := range ids {
		marker := " "
		if id == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, id)
	}
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	id := currentSessionID()
	if err := s.Delete(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s has no events\n", id)
			return nil
		}
		return err
	}
	logger.Info("session reset", zap.String("session", id))
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", id)
	return nil
}

// report prints the events a command recorded and the step the session is
// now on.
func report(out io.Writer, session *wizard.Session, events []event.Event, err error) error {
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Fprintf(out, "+ %-13s %s (%s)\n", e.Kind, e.StepID, e.Source)
	}
	fmt.Fprintf(out, "Current step: %s\n", session.CurrentStep())
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
