package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-quiz-api/internal/dto"
	"github.com/noah-isme/gema-quiz-api/internal/models"
	"github.com/noah-isme/gema-quiz-api/internal/observability"
	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

var (
	// ErrQuestionNotFound indicates no question carries the requested id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrCorrectAnswerMismatch indicates correct_answer names none of the options.
	ErrCorrectAnswerMismatch = errors.New("correct answer must match an option id")
)

// QuestionService exposes reading and administering the question bank.
type QuestionService interface {
	ListPage(ctx context.Context, page int) ([]models.Question, error)
	PageRange(ctx context.Context) (models.PageRange, error)
	ListAll(ctx context.Context) ([]models.Question, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, req dto.QuestionRequest) (models.Question, error)
	Update(ctx context.Context, id int, req dto.QuestionRequest) (models.Question, error)
	Delete(ctx context.Context, id int) error
	Reorder(ctx context.Context, req dto.ReorderRequest) error
	CleanupWhitespace(ctx context.Context) (bool, error)
	SeedSamples(ctx context.Context) (bool, error)
}

type questionService struct {
	repo      repository.QuestionRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

// NewQuestionService constructs the question bank service.
func NewQuestionService(repo repository.QuestionRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
		now:       time.Now,
		tracer:    otel.Tracer("github.com/noah-isme/gema-quiz-api/internal/service/question"),
	}
}

func (s *questionService) ListPage(ctx context.Context, page int) ([]models.Question, error) {
	if page < 0 {
		return nil, repository.ErrPageNotFound
	}
	return s.repo.ListPage(ctx, page)
}

func (s *questionService) PageRange(ctx context.Context) (models.PageRange, error) {
	return s.repo.PageRange(ctx)
}

func (s *questionService) ListAll(ctx context.Context) ([]models.Question, error) {
	return s.repo.ListAll(ctx)
}

func (s *questionService) Count(ctx context.Context) (int, error) {
	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

func (s *questionService) Create(ctx context.Context, req dto.QuestionRequest) (models.Question, error) {
	ctx, span := s.tracer.Start(ctx, "questions.create")
	defer span.End()

	question, err := s.buildQuestion(req)
	if err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return models.Question{}, err
	}

	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return models.Question{}, err
	}

	question.ID = nextQuestionID(questions)
	question.Page = 0
	if req.Page != nil {
		question.Page = *req.Page
	}
	question.CreatedAt = s.timestamp()

	if err := s.repo.ReplaceAll(ctx, append(questions, question)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return models.Question{}, err
	}

	span.SetAttributes(attribute.Int("question.id", question.ID))
	observability.QuestionMutations().WithLabelValues("create").Inc()
	s.logger.Info().Int("question_id", question.ID).Int("page", question.Page).Msg("question created")
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id int, req dto.QuestionRequest) (models.Question, error) {
	ctx, span := s.tracer.Start(ctx, "questions.update")
	defer span.End()
	span.SetAttributes(attribute.Int("question.id", id))

	updated, err := s.buildQuestion(req)
	if err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return models.Question{}, err
	}

	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return models.Question{}, err
	}

	index := indexOfQuestion(questions, id)
	if index < 0 {
		return models.Question{}, ErrQuestionNotFound
	}
	remaining := append(questions[:index:index], questions[index+1:]...)

	// The edited question replaces the old record wholesale: a draft without a page lands on
	// page 0 and the original creation time is not carried over.
	updated.ID = id
	if req.ID != nil {
		updated.ID = *req.ID
	}
	if req.Page != nil {
		updated.Page = *req.Page
	}
	updated.UpdatedAt = s.timestamp()

	remaining = append(remaining, updated)
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })

	if err := s.repo.ReplaceAll(ctx, remaining); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return models.Question{}, err
	}

	observability.QuestionMutations().WithLabelValues("update").Inc()
	s.logger.Info().Int("question_id", id).Int("new_id", updated.ID).Msg("question updated")
	return updated, nil
}

func (s *questionService) Delete(ctx context.Context, id int) error {
	ctx, span := s.tracer.Start(ctx, "questions.delete")
	defer span.End()
	span.SetAttributes(attribute.Int("question.id", id))

	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	remaining := make([]models.Question, 0, len(questions))
	for _, question := range questions {
		if question.ID != id {
			remaining = append(remaining, question)
		}
	}
	if len(remaining) == len(questions) {
		return ErrQuestionNotFound
	}
	renumber(remaining)

	if err := s.repo.ReplaceAll(ctx, remaining); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}

	observability.QuestionMutations().WithLabelValues("delete").Inc()
	s.logger.Info().Int("question_id", id).Int("remaining", len(remaining)).Msg("question deleted")
	return nil
}

// Reorder keeps only the listed questions, in payload order, renumbered from 1.
func (s *questionService) Reorder(ctx context.Context, req dto.ReorderRequest) error {
	ctx, span := s.tracer.Start(ctx, "questions.reorder")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	byID := make(map[int]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	used := make(map[int]struct{}, len(req.Questions))
	reordered := make([]models.Question, 0, len(req.Questions))
	for _, item := range req.Questions {
		if item.ID == nil {
			continue
		}
		question, ok := byID[*item.ID]
		if !ok {
			continue
		}
		if _, seen := used[*item.ID]; seen {
			continue
		}
		used[*item.ID] = struct{}{}

		question.Page = 0
		if item.Page != nil {
			question.Page = *item.Page
		}
		reordered = append(reordered, question)
	}
	renumber(reordered)

	if err := s.repo.ReplaceAll(ctx, reordered); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}

	span.SetAttributes(attribute.Int("questions.kept", len(reordered)))
	observability.QuestionMutations().WithLabelValues("reorder").Inc()
	s.logger.Info().Int("kept", len(reordered)).Int("dropped", len(questions)-len(reordered)).Msg("questions reordered")
	return nil
}

func (s *questionService) CleanupWhitespace(ctx context.Context) (bool, error) {
	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		return false, err
	}

	changed := false
	for i := range questions {
		if questions[i].TrimWhitespace() {
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	if err := s.repo.ReplaceAll(ctx, questions); err != nil {
		return false, err
	}
	observability.QuestionMutations().WithLabelValues("cleanup").Inc()
	s.logger.Info().Int("questions", len(questions)).Msg("question whitespace cleaned")
	return true, nil
}

// SeedSamples writes the bundled sample questions when the store is empty.
func (s *questionService) SeedSamples(ctx context.Context) (bool, error) {
	questions, err := s.repo.ListAll(ctx)
	if err != nil {
		return false, err
	}
	if len(questions) > 0 {
		return false, nil
	}

	samples := sampleQuestions(s.timestamp())
	if err := s.repo.ReplaceAll(ctx, samples); err != nil {
		return false, err
	}
	observability.QuestionMutations().WithLabelValues("seed").Inc()
	s.logger.Info().Int("questions", len(samples)).Msg("sample questions seeded")
	return true, nil
}

// buildQuestion validates a draft and returns it with every text field HTML-escaped.
func (s *questionService) buildQuestion(req dto.QuestionRequest) (models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Question{}, err
	}

	question := models.Question{
		Question:      escapeHTML(req.Question),
		CorrectAnswer: escapeHTML(req.CorrectAnswer),
		Explanation:   escapeHTML(req.Explanation),
		Options:       make([]models.Option, 0, len(req.Options)),
	}
	for _, option := range req.Options {
		question.Options = append(question.Options, models.Option{
			ID:   escapeHTML(option.ID),
			Text: escapeHTML(option.Text),
		})
	}

	if !question.HasOption(question.CorrectAnswer) {
		return models.Question{}, ErrCorrectAnswerMismatch
	}
	return question, nil
}

// htmlEscaper writes quotes as &quot; and &#x27; so newly escaped text matches the question files
// already on disk.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func escapeHTML(value string) string {
	return htmlEscaper.Replace(value)
}

func (s *questionService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func nextQuestionID(questions []models.Question) int {
	maxID := 0
	for _, question := range questions {
		if question.ID > maxID {
			maxID = question.ID
		}
	}
	return maxID + 1
}

func indexOfQuestion(questions []models.Question, id int) int {
	for i, question := range questions {
		if question.ID == id {
			return i
		}
	}
	return -1
}

func renumber(questions []models.Question) {
	for i := range questions {
		questions[i].ID = i + 1
	}
}

func sampleQuestions(createdAt string) []models.Question {
	return []models.Question{
		{
			ID:       1,
			Question: "Which HTML element is used for the largest heading?",
			Options: []models.Option{
				{ID: "A", Text: "&lt;h6&gt;"},
				{ID: "B", Text: "&lt;h1&gt;"},
				{ID: "C", Text: "&lt;header&gt;"},
				{ID: "D", Text: "&lt;title&gt;"},
			},
			CorrectAnswer: "B",
			Explanation:   "&lt;h1&gt; is the top level heading; &lt;h6&gt; is the smallest.",
			Page:          0,
			CreatedAt:     createdAt,
		},
		{
			ID:       2,
			Question: "Which CSS property changes the text color of an element?",
			Options: []models.Option{
				{ID: "A", Text: "font-color"},
				{ID: "B", Text: "text-color"},
				{ID: "C", Text: "color"},
				{ID: "D", Text: "foreground"},
			},
			CorrectAnswer: "C",
			Explanation:   "The color property sets the foreground color of text.",
			Page:          0,
			CreatedAt:     createdAt,
		},
		{
			ID:       3,
			Question: "What does HTTP status code 404 mean?",
			Options: []models.Option{
				{ID: "A", Text: "Server error"},
				{ID: "B", Text: "Not found"},
				{ID: "C", Text: "Unauthorized"},
				{ID: "D", Text: "Moved permanently"},
			},
			CorrectAnswer: "B",
			Explanation:   "404 means the server could not find the requested resource.",
			Page:          1,
			CreatedAt:     createdAt,
		},
		{
			ID:       4,
			Question: "Which keyword declares a block scoped variable in JavaScript?",
			Options: []models.Option{
				{ID: "A", Text: "var"},
				{ID: "B", Text: "let"},
				{ID: "C", Text: "global"},
				{ID: "D", Text: "define"},
			},
			CorrectAnswer: "B",
			Explanation:   "let and const are block scoped; var is function scoped.",
			Page:          1,
			CreatedAt:     createdAt,
		},
	}
}
