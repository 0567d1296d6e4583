package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/repository"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/handler/dto"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
)

// QuizHandler отдаёт контент для прохождения: список опубликованных викторин
// и вопросы без флагов правильности. Авторский CRUD-контур живёт вне этого сервиса.
type QuizHandler struct {
	contentRepo repository.ContentRepository
}

// NewQuizHandler создает новый обработчик контента викторин
func NewQuizHandler(contentRepo repository.ContentRepository) *QuizHandler {
	return &QuizHandler{contentRepo: contentRepo}
}

// ListQuizzes обрабатывает GET /quizzes — опубликованные викторины с пагинацией
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, perPage := pagination(c)

	quizzes, total, err := h.contentRepo.ListPublished(perPage, (page-1)*perPage)
	if err != nil {
		log.Printf("[QuizHandler] Ошибка при получении списка викторин: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable, please retry", "error_type": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedQuizResponse(quizzes, total, page, perPage))
}

// GetQuizQuestions обрабатывает GET /quizzes/:id/questions.
// Варианты ответов отдаются без is_correct — правильность раскрывается
// только итоговым score после завершения попытки.
func (h *QuizHandler) GetQuizQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.contentRepo.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found", "error_type": "not_found"})
			return
		}
		log.Printf("[QuizHandler] Ошибка при получении викторины #%d: %v", quizID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable, please retry", "error_type": "unavailable"})
		return
	}

	questions, err := h.contentRepo.GetQuestionsWithOptions(quizID)
	if err != nil {
		log.Printf("[QuizHandler] Ошибка при получении вопросов викторины #%d: %v", quizID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable, please retry", "error_type": "unavailable"})
		return
	}

	questionDTOs := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		questionDTOs = append(questionDTOs, dto.NewQuestionResponse(&questions[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"quiz":      dto.NewQuizResponse(quiz),
		"questions": questionDTOs,
	})
}
