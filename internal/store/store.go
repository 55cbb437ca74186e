// Package store persists wizard event logs. FileStore keeps one JSON document
// per session; SQLiteStore keeps every session in one database.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kingrea/urbanwizard/internal/config"
	"github.com/kingrea/urbanwizard/internal/event"
)

// ErrSessionNotFound is returned when a session has no persisted events.
var ErrSessionNotFound = errors.New("store: session not found")

// Store persists the event log of wizard sessions. Load of an unknown
// session returns an empty log.
type Store interface {
	Load(ctx context.Context, sessionID string) (event.Log, error)
	Append(ctx context.Context, sessionID string, events ...event.Event) error
	Sessions(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: config is required")
	}
	switch cfg.StoreBackend() {
	case config.StoreFile:
		return NewFileStore(cfg.StorePath())
	case config.StoreSQLite:
		return OpenSQLite(cfg.StorePath())
	default:
		return nil, fmt.Errorf("store: unsupported backend %q", cfg.StoreBackend())
	}
}

func validateSessionID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("store: session id is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("store: invalid session id %q", id)
	}
	return id, nil
}
