package dto

import (
	"time"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// OptionResponse представляет вариант ответа для клиента.
// Флаг is_correct намеренно отсутствует: правильность скрыта до завершения попытки.
type OptionResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID      uint             `json:"id"`
	QuizID  uint             `json:"quiz_id"`
	Text    string           `json:"text"`
	Options []OptionResponse `json:"options"`
}

// QuizResponse представляет викторину в формате для ответа клиенту
type QuizResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	TimeLimitSec int       `json:"time_limit_sec"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaginatedQuizResponse представляет пагинированный список викторин
type PaginatedQuizResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// NewQuestionResponse создает DTO для вопроса, скрывая флаги правильности
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	options := make([]OptionResponse, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, OptionResponse{ID: opt.ID, Text: opt.Text})
	}
	return QuestionResponse{
		ID:      q.ID,
		QuizID:  q.QuizID,
		Text:    q.Text,
		Options: options,
	}
}

// NewQuizResponse создает DTO для викторины
func NewQuizResponse(quiz *entity.Quiz) QuizResponse {
	return QuizResponse{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		TimeLimitSec: quiz.EffectiveTimeLimit(),
		IsPublished:  quiz.IsPublished,
		CreatedAt:    quiz.CreatedAt,
	}
}

// NewPaginatedQuizResponse создает пагинированный список викторин
func NewPaginatedQuizResponse(quizzes []entity.Quiz, total int64, page, perPage int) PaginatedQuizResponse {
	items := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		items = append(items, NewQuizResponse(&quizzes[i]))
	}
	return PaginatedQuizResponse{
		Quizzes: items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
