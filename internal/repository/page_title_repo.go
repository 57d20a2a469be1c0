package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// PageTitleRepository stores the page title overrides shown by the quiz UI.
type PageTitleRepository interface {
	Get(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, titles map[string]string) error
}

type filePageTitleRepository struct {
	path   string
	logger zerolog.Logger
}

// NewFilePageTitleRepository persists the overrides as a single JSON object at path.
func NewFilePageTitleRepository(path string, logger zerolog.Logger) PageTitleRepository {
	return &filePageTitleRepository{
		path:   path,
		logger: logger.With().Str("component", "page_title_repository").Logger(),
	}
}

func (r *filePageTitleRepository) Get(ctx context.Context) (map[string]string, error) {
	titles := map[string]string{}
	if err := readJSONFile(r.path, &titles); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Msg("page titles unreadable, serving none")
		}
		return map[string]string{}, nil
	}
	return titles, nil
}

func (r *filePageTitleRepository) Save(ctx context.Context, titles map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create page title directory: %w", err)
	}
	if titles == nil {
		titles = map[string]string{}
	}
	return writeJSONFile(r.path, titles)
}
