package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

// ErrInvalidPageTitles indicates the submitted titles were not a map of strings.
var ErrInvalidPageTitles = errors.New("page titles must map page keys to strings")

// PageTitleService manages the display names of quiz pages.
type PageTitleService interface {
	Get(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, titles map[string]string) (map[string]string, error)
}

type pageTitleService struct {
	repo      repository.PageTitleRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewPageTitleService constructs the page title service.
func NewPageTitleService(repo repository.PageTitleRepository, logger zerolog.Logger) PageTitleService {
	return &pageTitleService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "page_title_service").Logger(),
	}
}

func (s *pageTitleService) Get(ctx context.Context) (map[string]string, error) {
	return s.repo.Get(ctx)
}

// Save replaces all titles. Markup is stripped from keys and values.
func (s *pageTitleService) Save(ctx context.Context, titles map[string]string) (map[string]string, error) {
	if titles == nil {
		return nil, ErrInvalidPageTitles
	}

	cleaned := make(map[string]string, len(titles))
	for key, title := range titles {
		key = strings.TrimSpace(s.sanitizer.Sanitize(key))
		if key == "" {
			continue
		}
		cleaned[key] = strings.TrimSpace(s.sanitizer.Sanitize(title))
	}

	if err := s.repo.Save(ctx, cleaned); err != nil {
		return nil, err
	}
	s.logger.Info().Int("titles", len(cleaned)).Msg("page titles saved")
	return cleaned, nil
}
