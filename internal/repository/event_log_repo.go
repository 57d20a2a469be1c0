package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

const sessionFileSuffix = ".json"

// EventLogRepository is the append-only per-session event log.
type EventLogRepository interface {
	Append(ctx context.Context, sessionID string, event models.Event) error
	Load(ctx context.Context, sessionID string) ([]models.Event, error)
	ListSessionIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, sessionID string) error
}

type fileEventLogRepository struct {
	dir    string
	logger zerolog.Logger
}

// NewFileEventLogRepository keeps one JSON array file per session inside dir.
func NewFileEventLogRepository(dir string, logger zerolog.Logger) EventLogRepository {
	return &fileEventLogRepository{
		dir:    dir,
		logger: logger.With().Str("component", "event_log_file_repository").Logger(),
	}
}

func (r *fileEventLogRepository) sessionPath(sessionID string) string {
	return filepath.Join(r.dir, sessionID+sessionFileSuffix)
}

func (r *fileEventLogRepository) Append(ctx context.Context, sessionID string, event models.Event) error {
	if !models.ValidSessionID(sessionID) {
		return ErrInvalidSessionID
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	path := r.sessionPath(sessionID)
	var events []models.Event
	if err := readJSONFile(path, &events); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session log unreadable, starting a new one")
		events = nil
	}

	events = append(events, event)
	return writeJSONFile(path, events)
}

func (r *fileEventLogRepository) Load(ctx context.Context, sessionID string) ([]models.Event, error) {
	if !models.ValidSessionID(sessionID) {
		return nil, ErrSessionNotFound
	}

	var events []models.Event
	if err := readJSONFile(r.sessionPath(sessionID), &events); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (r *fileEventLogRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read session directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, sessionFileSuffix) || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, sessionFileSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fileEventLogRepository) Delete(ctx context.Context, sessionID string) error {
	if !models.ValidSessionID(sessionID) {
		return ErrSessionNotFound
	}
	if err := os.Remove(r.sessionPath(sessionID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session log: %w", err)
	}
	return nil
}
