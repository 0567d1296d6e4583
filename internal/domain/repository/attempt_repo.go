package repository

import (
	"time"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками и ответами.
// Единственный писатель строк Attempt/UserAnswer — менеджер жизненного цикла попыток.
type AttemptRepository interface {
	// CreateOpenAttempt создает новую открытую попытку.
	// Partial unique index (user_id, quiz_id) WHERE completed_at IS NULL гарантирует
	// не более одной открытой попытки на пару; при гонке возвращает ErrOpenAttemptExists.
	CreateOpenAttempt(attempt *entity.Attempt) error

	// GetOpenAttempt возвращает открытую попытку пары (user, quiz) или ErrNotFound.
	GetOpenAttempt(userID, quizID uint) (*entity.Attempt, error)

	// GetAttempt возвращает попытку по ID или ErrNotFound.
	GetAttempt(id uint) (*entity.Attempt, error)

	// UpsertAnswer атомарно сохраняет ответ на вопрос внутри попытки.
	// Повторный ответ на тот же вопрос заменяет предыдущий (last write wins).
	UpsertAnswer(attemptID, questionID, optionID uint) error

	// GetAnswers возвращает все ответы попытки.
	GetAnswers(attemptID uint) ([]entity.UserAnswer, error)

	// CompleteAttempt атомарно завершает попытку: UPDATE ... WHERE completed_at IS NULL.
	// Возвращает число затронутых строк: 0 означает, что попытка уже была завершена —
	// это защита от повторной оценки при конкурирующих вызовах.
	CompleteAttempt(attemptID uint, score float64, completedAt time.Time) (int64, error)

	// ListByUser возвращает попытки пользователя (новые первыми) с пагинацией.
	ListByUser(userID uint, limit, offset int) ([]entity.Attempt, error)

	// ListExpiredOpen возвращает открытые попытки, чей дедлайн с учётом grace
	// истёк к моменту now. Кандидаты на принудительное завершение.
	ListExpiredOpen(now time.Time, grace time.Duration, limit int) ([]entity.Attempt, error)
}
