package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/repository"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository поверх PostgreSQL.
// Инварианты состояния попытки держатся на трёх механизмах:
//   - partial unique index idx_attempts_single_open → не более одной открытой
//     попытки на пару (user, quiz);
//   - unique index (attempt_id, question_id) + ON CONFLICT DO UPDATE → один
//     ответ на вопрос, last write wins;
//   - guarded UPDATE ... WHERE completed_at IS NULL → ровно одно завершение.
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// CreateOpenAttempt создает открытую попытку.
// Гонка двух одновременных стартов разрешается на уровне БД:
// проигравший insert получает 23505 и транслируется в ErrOpenAttemptExists.
func (r *AttemptRepo) CreateOpenAttempt(attempt *entity.Attempt) error {
	if err := r.db.Create(attempt).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user #%d quiz #%d", repository.ErrOpenAttemptExists, attempt.UserID, attempt.QuizID)
		}
		return err
	}
	return nil
}

// GetOpenAttempt возвращает открытую попытку пары (user, quiz)
func (r *AttemptRepo) GetOpenAttempt(userID, quizID uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.Where("user_id = ? AND quiz_id = ? AND completed_at IS NULL", userID, quizID).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// GetAttempt возвращает попытку по ID
func (r *AttemptRepo) GetAttempt(id uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// UpsertAnswer сохраняет ответ на вопрос внутри попытки.
// ON CONFLICT (attempt_id, question_id) DO UPDATE — повторный ответ заменяет
// предыдущий; конкурирующие записи по одному вопросу сводятся к last write wins.
func (r *AttemptRepo) UpsertAnswer(attemptID, questionID, optionID uint) error {
	answer := entity.UserAnswer{
		AttemptID:  attemptID,
		QuestionID: questionID,
		OptionID:   optionID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"option_id":  optionID,
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&answer).Error
}

// GetAnswers возвращает все ответы попытки
func (r *AttemptRepo) GetAnswers(attemptID uint) ([]entity.UserAnswer, error) {
	var answers []entity.UserAnswer
	err := r.db.Where("attempt_id = ?", attemptID).
		Order("question_id").
		Find(&answers).Error
	return answers, err
}

// CompleteAttempt атомарно завершает попытку: score и completed_at пишутся одним
// UPDATE, защищённым предикатом completed_at IS NULL.
// RowsAffected == 0 → попытка уже была завершена (конкурирующий вызов выиграл гонку).
func (r *AttemptRepo) CompleteAttempt(attemptID uint, score float64, completedAt time.Time) (int64, error) {
	result := r.db.Model(&entity.Attempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Updates(map[string]interface{}{
			"score":        score,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListByUser возвращает попытки пользователя, новые первыми
func (r *AttemptRepo) ListByUser(userID uint, limit, offset int) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	return attempts, err
}

// ListExpiredOpen возвращает открытые попытки с истёкшим дедлайном.
// Дедлайн считается от снимка time_limit_sec в самой попытке.
func (r *AttemptRepo) ListExpiredOpen(now time.Time, grace time.Duration, limit int) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	cutoff := now.Add(-grace)
	err := r.db.
		Where("completed_at IS NULL AND started_at + (time_limit_sec * interval '1 second') < ?", cutoff).
		Order("started_at").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
