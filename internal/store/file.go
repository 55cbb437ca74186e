package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kingrea/urbanwizard/internal/event"
)

const sessionExt = ".json"

// sessionDocument is the on-disk shape of one session.
type sessionDocument struct {
	Session   string    `json:"session"`
	UpdatedAt time.Time `json:"updatedAt"`
	Events    event.Log `json:"events"`
}

// FileStore writes each session to <dir>/<session>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("store: sessions dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure sessions dir: %w", err)
	}
	return &FileStore{dir: filepath.Clean(dir)}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+sessionExt)
}

// Load reads the session log if present.
func (s *FileStore) Load(ctx context.Context, sessionID string) (event.Log, error) {
	if err := ctx.Err(); err != nil {
		return event.Log{}, err
	}
	id, err := validateSessionID(sessionID)
	if err != nil {
		return event.Log{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read(id)
	if errors.Is(err, ErrSessionNotFound) {
		return event.Log{}, nil
	}
	return doc.Events, err
}

// Append adds events to the session and rewrites its document.
func (s *FileStore) Append(ctx context.Context, sessionID string, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := validateSessionID(sessionID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	doc.Session = id
	doc.UpdatedAt = time.Now().UTC()
	doc.Events = doc.Events.Append(events...)
	return s.write(id, doc)
}

// Sessions lists the stored session identifiers.
func (s *FileStore) Sessions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sessionExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), sessionExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the session document.
func (s *FileStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := validateSessionID(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(id string) (sessionDocument, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sessionDocument{}, ErrSessionNotFound
		}
		return sessionDocument{}, fmt.Errorf("store: read %s: %w", id, err)
	}
	var doc sessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return sessionDocument{}, fmt.Errorf("store: decode %s: %w", id, err)
	}
	return doc, nil
}

// write replaces the document through a temporary file in the same
// directory.
func (s *FileStore) write(id string, doc sessionDocument) error {
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", id, err)
	}
	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(encoded, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	return nil
}
