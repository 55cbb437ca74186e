// cmd/urbanwizard/main.go
//
// This is the entry point for the urbanwizard CLI.
//
// Flow:
// 1. Read .urbanwizard/config.yaml and URBANWIZARD_* overrides
// 2. Build the zap logger writing to .urbanwizard/logs
// 3. Open the session's event log from the configured store
// 4. Run one wizard command, or the TUI

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/config"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/handler"
	"github.com/kingrea/urbanwizard/internal/logging"
	"github.com/kingrea/urbanwizard/internal/site"
	"github.com/kingrea/urbanwizard/internal/store"
	"github.com/kingrea/urbanwizard/internal/wizard"
)

var (
	verbose   bool
	workspace string
	sessionID string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "urbanwizard",
	Short: "Urban project creation wizard",
	Long: `urbanwizard walks through the creation of an urban project on an existing site.

Every answer and every move is recorded in an append-only event log, so a
session can be resumed, inspected and replayed at any time.

Run "urbanwizard init" once in a project directory, then "urbanwizard tui".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveWorkspace()
		if err != nil {
			return err
		}
		if cmd.Name() == "init" {
			if err := config.InitWizardDir(dir); err != nil {
				return fmt.Errorf("init %s: %w", config.WizardDir, err)
			}
		}
		cfg, err = config.NewConfig(dir)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg, logging.Options{Stderr: verbose, Verbose: verbose})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Project directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Session to work on (default: from config)")

	rootCmd.AddCommand(
		initCmd,
		statusCmd,
		nextCmd,
		previousCmd,
		loadCmd,
		completeCmd,
		answersCmd,
		projectCmd,
		historyCmd,
		exportCmd,
		sessionsCmd,
		useCmd,
		resetCmd,
		tuiCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveWorkspace() (string, error) {
	if dir := strings.TrimSpace(workspace); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

func currentSessionID() string {
	if id := strings.TrimSpace(sessionID); id != "" {
		return id
	}
	return cfg.Session()
}

// openSession opens the store and resumes the selected session. The returned
// store must be closed by the caller.
func openSession(ctx context.Context) (*wizard.Session, store.Store, error) {
	env := handler.Env{
		Calc:         calc.Default{},
		Clock:        event.SystemClock{},
		Invalidation: handler.Invalidation(cfg.Invalidation()),
	}
	if path := cfg.SitePath(); path != "" {
		data, err := site.Load(path)
		if err != nil {
			return nil, nil, err
		}
		env.Site = data
	}

	s, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	session, err := wizard.Open(ctx, currentSessionID(), handler.Default(), env,
		wizard.WithStore(s),
		wizard.WithLogger(logger),
	)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return session, s, nil
}
