package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

const (
	questionFilePrefix = "questions_"
	questionFileSuffix = ".json"
)

// QuestionRepository stores the paginated question collection. Writes always replace the whole
// collection.
type QuestionRepository interface {
	ListAll(ctx context.Context) ([]models.Question, error)
	ListPage(ctx context.Context, page int) ([]models.Question, error)
	PageRange(ctx context.Context) (models.PageRange, error)
	ReplaceAll(ctx context.Context, questions []models.Question) error
}

type fileQuestionRepository struct {
	dir    string
	logger zerolog.Logger
}

// NewFileQuestionRepository stores one JSON array file per page inside dir.
func NewFileQuestionRepository(dir string, logger zerolog.Logger) QuestionRepository {
	return &fileQuestionRepository{
		dir:    dir,
		logger: logger.With().Str("component", "question_file_repository").Logger(),
	}
}

type pageFile struct {
	page int
	name string
}

func (r *fileQuestionRepository) pageFiles() ([]pageFile, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read question directory: %w", err)
	}

	files := make([]pageFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, questionFilePrefix) || !strings.HasSuffix(name, questionFileSuffix) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, questionFilePrefix), questionFileSuffix)
		page, err := strconv.Atoi(raw)
		if err != nil {
			r.logger.Warn().Str("file", name).Msg("ignoring question file with non-numeric page")
			continue
		}
		files = append(files, pageFile{page: page, name: name})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].page < files[j].page })
	return files, nil
}

func (r *fileQuestionRepository) pagePath(page int) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s%d%s", questionFilePrefix, page, questionFileSuffix))
}

func (r *fileQuestionRepository) ListAll(ctx context.Context) ([]models.Question, error) {
	files, err := r.pageFiles()
	if err != nil {
		return nil, err
	}

	all := make([]models.Question, 0)
	for _, file := range files {
		var questions []models.Question
		if err := readJSONFile(filepath.Join(r.dir, file.name), &questions); err != nil {
			r.logger.Warn().Err(err).Str("file", file.name).Msg("skipping unreadable question file")
			continue
		}
		all = append(all, questions...)
	}
	return all, nil
}

func (r *fileQuestionRepository) ListPage(ctx context.Context, page int) ([]models.Question, error) {
	var questions []models.Question
	if err := readJSONFile(r.pagePath(page), &questions); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Int("page", page).Msg("question page unreadable")
		}
		return nil, ErrPageNotFound
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

func (r *fileQuestionRepository) PageRange(ctx context.Context) (models.PageRange, error) {
	files, err := r.pageFiles()
	if err != nil {
		return models.PageRange{}, err
	}
	if len(files) == 0 {
		return models.PageRange{}, nil
	}
	return models.PageRange{
		TotalPages: len(files),
		StartPage:  files[0].page,
		EndPage:    files[len(files)-1].page,
	}, nil
}

func (r *fileQuestionRepository) ReplaceAll(ctx context.Context, questions []models.Question) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create question directory: %w", err)
	}

	files, err := r.pageFiles()
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.Remove(filepath.Join(r.dir, file.name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", file.name, err)
		}
	}

	pages := map[int][]models.Question{}
	for _, question := range questions {
		pages[question.Page] = append(pages[question.Page], question)
	}
	for page, pageQuestions := range pages {
		if err := writeJSONFile(r.pagePath(page), pageQuestions); err != nil {
			return err
		}
	}

	r.logger.Debug().Int("questions", len(questions)).Int("pages", len(pages)).Msg("question collection rewritten")
	return nil
}
