package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-quiz-api/internal/models"
)

// questionRecord is the SQL row of a question. Position keeps the collection order within a
// page, QuestionID is the public dense id.
type questionRecord struct {
	RowID         uint                                `gorm:"column:row_id;primaryKey;autoIncrement"`
	QuestionID    int                                 `gorm:"column:question_id;index;not null"`
	Page          int                                 `gorm:"index;not null"`
	Position      int                                 `gorm:"not null"`
	Question      string                              `gorm:"type:text"`
	Options       datatypes.JSONType[[]models.Option] `gorm:"type:json"`
	CorrectAnswer string                              `gorm:"type:text"`
	Explanation   string                              `gorm:"type:text"`
	CreatedAtText string                              `gorm:"column:created_at;size:64"`
	UpdatedAtText string                              `gorm:"column:updated_at;size:64"`
}

func (questionRecord) TableName() string { return "quiz_questions" }

func newQuestionRecord(question models.Question, position int) questionRecord {
	options := question.Options
	if options == nil {
		options = []models.Option{}
	}
	return questionRecord{
		QuestionID:    question.ID,
		Page:          question.Page,
		Position:      position,
		Question:      question.Question,
		Options:       datatypes.NewJSONType(options),
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		CreatedAtText: question.CreatedAt,
		UpdatedAtText: question.UpdatedAt,
	}
}

func (r questionRecord) toModel() models.Question {
	options := r.Options.Data()
	if options == nil {
		options = []models.Option{}
	}
	return models.Question{
		ID:            r.QuestionID,
		Question:      r.Question,
		Options:       options,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
		Page:          r.Page,
		CreatedAt:     r.CreatedAtText,
		UpdatedAt:     r.UpdatedAtText,
	}
}

type gormQuestionRepository struct {
	db *gorm.DB
}

// NewGormQuestionRepository stores questions in a single SQL table; ReplaceAll runs in one
// transaction.
func NewGormQuestionRepository(db *gorm.DB) QuestionRepository {
	return &gormQuestionRepository{db: db}
}

func (r *gormQuestionRepository) ListAll(ctx context.Context) ([]models.Question, error) {
	var records []questionRecord
	if err := r.db.WithContext(ctx).Order("page ASC").Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toQuestionModels(records), nil
}

func (r *gormQuestionRepository) ListPage(ctx context.Context, page int) ([]models.Question, error) {
	var records []questionRecord
	if err := r.db.WithContext(ctx).Where("page = ?", page).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrPageNotFound
	}
	return toQuestionModels(records), nil
}

func (r *gormQuestionRepository) PageRange(ctx context.Context) (models.PageRange, error) {
	var pages []int
	err := r.db.WithContext(ctx).
		Model(&questionRecord{}).
		Distinct("page").
		Order("page ASC").
		Pluck("page", &pages).Error
	if err != nil {
		return models.PageRange{}, err
	}
	if len(pages) == 0 {
		return models.PageRange{}, nil
	}
	return models.PageRange{TotalPages: len(pages), StartPage: pages[0], EndPage: pages[len(pages)-1]}, nil
}

func (r *gormQuestionRepository) ReplaceAll(ctx context.Context, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&questionRecord{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		records := make([]questionRecord, 0, len(questions))
		for i, question := range questions {
			records = append(records, newQuestionRecord(question, i))
		}
		return tx.CreateInBatches(records, 100).Error
	})
}

func toQuestionModels(records []questionRecord) []models.Question {
	questions := make([]models.Question, 0, len(records))
	for _, record := range records {
		questions = append(questions, record.toModel())
	}
	return questions
}
