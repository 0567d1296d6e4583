// Package grading содержит чистую функцию подсчёта результата попытки.
// Никаких побочных эффектов: на вход — вопросы викторины и карта ответов,
// на выход — итоговая сводка. Вызывается менеджером жизненного цикла попыток
// и тестируется независимо от хранилища.
package grading

import (
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// Summary — итог оценки попытки
type Summary struct {
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions int     `json:"total_questions"`
	Score          float64 `json:"score"` // Процент в диапазоне [0, 100], полная точность float
}

// Grade подсчитывает результат по множеству ответов answers (question_id → option_id).
// Вопрос без ответа считается отвеченным неверно. Викторина без вопросов даёт
// score = 0 — это определённый граничный случай, а не ошибка.
func Grade(questions []entity.Question, answers map[uint]uint) Summary {
	summary := Summary{TotalQuestions: len(questions)}

	for i := range questions {
		q := &questions[i]
		optionID, answered := answers[q.ID]
		if !answered {
			continue
		}
		if q.IsCorrectOption(optionID) {
			summary.CorrectCount++
		}
	}

	if summary.TotalQuestions > 0 {
		summary.Score = float64(summary.CorrectCount) / float64(summary.TotalQuestions) * 100
	}

	return summary
}

// AnswerMap преобразует сохранённые ответы попытки в карту question_id → option_id.
// Уникальный индекс (attempt_id, question_id) гарантирует не более одной записи
// на вопрос, так что потери данных при свёртке нет.
func AnswerMap(answers []entity.UserAnswer) map[uint]uint {
	m := make(map[uint]uint, len(answers))
	for _, a := range answers {
		m[a.QuestionID] = a.OptionID
	}
	return m
}
