package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
)

// ContentRepo реализует repository.ContentRepository поверх PostgreSQL.
// Только чтение: записи quizzes/questions/options принадлежат авторскому контуру.
type ContentRepo struct {
	db *gorm.DB
}

// NewContentRepo создает новый репозиторий контента
func NewContentRepo(db *gorm.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// GetQuiz возвращает викторину по ID (без вопросов)
func (r *ContentRepo) GetQuiz(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetQuestionsWithOptions возвращает вопросы викторины с вариантами ответов.
// Порядок стабилен (по id вопроса и id варианта), чтобы оценка была детерминированной.
func (r *ContentRepo) GetQuestionsWithOptions(quizID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		}).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// OptionBelongsToQuestion проверяет принадлежность варианта вопросу
func (r *ContentRepo) OptionBelongsToQuestion(optionID, questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Option{}).
		Where("id = ? AND question_id = ?", optionID, questionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPublished возвращает опубликованные викторины с пагинацией и total count
func (r *ContentRepo) ListPublished(limit, offset int) ([]entity.Quiz, int64, error) {
	var quizzes []entity.Quiz
	var total int64

	query := r.db.Model(&entity.Quiz{}).Where("is_published = true")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("id DESC").Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}
