package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/urbanwizard/internal/config"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

var base = time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)

func at(seconds int) time.Time { return base.Add(time.Duration(seconds) * time.Second) }

func sampleEvents() []event.Event {
	owner := &step.Stakeholder{Name: "Commune de Blajan", StructureType: "municipality"}
	return []event.Event{
		event.StepNavigated(step.SpacesCategoriesSelection, at(1)),
		event.AnswerSet(step.SpacesCategoriesSelectionAnswers{
			SpacesCategories: []step.SpaceCategory{step.GreenSpaces},
		}, event.SourceUser, at(2)),
		event.AnswerSet(step.SpacesCategoriesSurfaceAreaAnswers{
			SpacesCategoriesDistribution: map[step.SpaceCategory]float64{step.GreenSpaces: 5000},
		}, event.SourceSystem, at(2)),
		event.StepNavigated(step.SpacesDevelopmentPlanIntroduction, at(3)),
		event.AnswerSet(step.SiteResaleSelectionAnswers{FutureSiteOwner: owner}, event.SourceUser, at(4)),
		event.InvalidStep(step.ExpensesInstallation, at(5)),
		event.AnswerDeleted(step.ExpensesReinstatement, event.SourceSystem, at(5)),
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	file, err := NewFileStore(filepath.Join(dir, "sessions"))
	require.NoError(t, err)
	sqlite, err := OpenSQLite(filepath.Join(dir, "state", "urbanwizard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{"file": file, "sqlite": sqlite}
}

func TestStoresRoundTripLogs(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			events := sampleEvents()
			require.NoError(t, s.Append(ctx, "tanneries", events[:3]...))
			require.NoError(t, s.Append(ctx, "tanneries", events[3:]...))
			require.NoError(t, s.Append(ctx, "tanneries"))

			log, err := s.Load(ctx, "tanneries")
			require.NoError(t, err)
			if diff := cmp.Diff(events, log.Events()); diff != "" {
				t.Fatalf("reloaded log mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoresLoadMissingSessionAsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			log, err := s.Load(ctx, "nobody")
			require.NoError(t, err)
			require.Zero(t, log.Len())
		})
	}
}

func TestStoresListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			events := sampleEvents()
			require.NoError(t, s.Append(ctx, "b-session", events[0]))
			require.NoError(t, s.Append(ctx, "a-session", events[1]))

			ids, err := s.Sessions(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"a-session", "b-session"}, ids)

			require.NoError(t, s.Delete(ctx, "a-session"))
			err = s.Delete(ctx, "a-session")
			require.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)

			ids, err = s.Sessions(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"b-session"}, ids)
		})
	}
}

func TestStoresRejectInvalidSessionIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "  ", "../escape", `a\b`, ".."} {
				_, err := s.Load(ctx, id)
				require.Errorf(t, err, "session id %q", id)
			}
		})
	}
}

func TestStoresHonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Append(ctx, "s1", sampleEvents()[0])
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestFileStoreRejectsCorruptDocuments(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	_, err = s.Load(context.Background(), "broken")
	require.ErrorContains(t, err, "store: decode broken")
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	projectDir := t.TempDir()
	cfg := &config.Config{
		ProjectDir:       projectDir,
		WizardProjectDir: filepath.Join(projectDir, config.WizardDir),
		Project: config.ProjectConfig{
			Version: 1,
			Store:   config.StoreConfig{Backend: config.StoreSQLite},
		},
	}

	s, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.IsType(t, &SQLiteStore{}, s)
	require.FileExists(t, cfg.StorePath())

	cfg.Project.Store.Backend = config.StoreFile
	s, err = Open(cfg)
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	cfg.Project.Store.Backend = "redis"
	_, err = Open(cfg)
	require.Error(t, err)
}
