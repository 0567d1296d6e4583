package repository

import (
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// ContentRepository определяет read-only доступ ядра попыток к контенту
// (викторины, вопросы, варианты). Авторский CRUD-контур сюда не входит.
type ContentRepository interface {
	// GetQuiz возвращает викторину по ID (без вопросов).
	GetQuiz(id uint) (*entity.Quiz, error)
	// GetQuestionsWithOptions возвращает упорядоченный список вопросов викторины
	// вместе с вариантами ответов и флагами правильности.
	GetQuestionsWithOptions(quizID uint) ([]entity.Question, error)
	// OptionBelongsToQuestion проверяет принадлежность варианта вопросу.
	OptionBelongsToQuestion(optionID, questionID uint) (bool, error)
	// ListPublished возвращает опубликованные викторины с пагинацией и total count.
	ListPublished(limit, offset int) ([]entity.Quiz, int64, error)
}
