package dto

import (
	"time"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/service"
)

// AnswerResponse представляет сохранённый ответ попытки
type AnswerResponse struct {
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

// AttemptDetailResponse представляет попытку с ответами для владельца или админа
type AttemptDetailResponse struct {
	AttemptID    uint             `json:"attempt_id"`
	QuizID       uint             `json:"quiz_id"`
	QuizTitle    string           `json:"quiz_title"`
	TimeLimitSec int              `json:"time_limit_sec"`
	Score        *float64         `json:"score,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	Answers      []AnswerResponse `json:"answers"`
}

// NewAttemptDetailResponse создает DTO деталей попытки
func NewAttemptDetailResponse(detail *service.AttemptDetail) AttemptDetailResponse {
	answers := make([]AnswerResponse, 0, len(detail.Answers))
	for _, a := range detail.Answers {
		answers = append(answers, AnswerResponse{QuestionID: a.QuestionID, OptionID: a.OptionID})
	}
	return AttemptDetailResponse{
		AttemptID:    detail.Attempt.ID,
		QuizID:       detail.Attempt.QuizID,
		QuizTitle:    detail.QuizTitle,
		TimeLimitSec: detail.Attempt.TimeLimitSec,
		Score:        detail.Attempt.Score,
		StartedAt:    detail.Attempt.StartedAt,
		CompletedAt:  detail.Attempt.CompletedAt,
		Answers:      answers,
	}
}
