package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/handler/dto"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/service"
)

// AttemptHandler отображает операции жизненного цикла попыток на HTTP.
// Сам ядровой сервис транспортных понятий не знает: коды статусов выбираются здесь.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// StartAttempt обрабатывает POST /quizzes/:id/attempt.
// Повторный старт при открытой попытке возвращает её же (resume), 200 вместо 201.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	result, err := h.attemptService.StartAttempt(c.Request.Context(), quizID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// SubmitAnswerRequest представляет запрос на ответ на один вопрос
type SubmitAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	OptionID   uint `json:"option_id" binding:"required"`
}

// SubmitAnswer обрабатывает POST /attempts/:id/answers.
// Повторный ответ на тот же вопрос заменяет предыдущий.
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.attemptService.SubmitAnswer(c.Request.Context(), attemptID, req.QuestionID, req.OptionID); err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer saved"})
}

// CompleteAttemptRequest представляет запрос на завершение попытки.
// Формат answers повторяет клиентский паттерн "отправить всё одним вызовом".
type CompleteAttemptRequest struct {
	Answers []struct {
		QuestionID uint `json:"question_id" binding:"required"`
		OptionID   uint `json:"option_id" binding:"required"`
	} `json:"answers"`
}

// CompleteAttempt обрабатывает PUT /attempts/:id
func (h *AttemptHandler) CompleteAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)

	// Тело запроса опционально: завершение без answers оценивает уже сохранённые ответы
	var req CompleteAttemptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	finalAnswers := make(map[uint]uint, len(req.Answers))
	for _, a := range req.Answers {
		finalAnswers[a.QuestionID] = a.OptionID
	}

	result, err := h.attemptService.CompleteAttempt(c.Request.Context(), attemptID, finalAnswers)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAttempt обрабатывает GET /attempts/:id (владелец или админ)
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)

	detail, err := h.attemptService.GetAttemptDetail(c.Request.Context(), attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptDetailResponse(detail))
}

// ListMyAttempts обрабатывает GET /user/attempts
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	page, perPage := pagination(c)

	items, err := h.attemptService.ListUserAttempts(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": items, "page": page, "per_page": perPage})
}

// handleAttemptError отображает типизированные ошибки ядра на HTTP-статусы.
// Ни одна ошибка не глотается: всё, что не распознано, уходит клиенту как 503
// с пометкой о возможности повтора.
func (h *AttemptHandler) handleAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrQuizNotAvailable):
		c.JSON(http.StatusForbidden, gin.H{"error": "Quiz is not available", "error_type": "quiz_not_available"})
	case errors.Is(err, apperrors.ErrAttemptCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "This attempt has already been completed", "error_type": "attempt_completed"})
	case errors.Is(err, apperrors.ErrQuestionMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question does not belong to this quiz", "error_type": "question_mismatch"})
	case errors.Is(err, apperrors.ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Option does not belong to this question", "error_type": "invalid_option"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrUnavailable):
		log.Printf("[AttemptHandler] Storage error: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable, please retry", "error_type": "unavailable"})
	default:
		log.Printf("[AttemptHandler] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal"})
	}
}

// pagination извлекает page/per_page из query string с безопасными умолчаниями
func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
