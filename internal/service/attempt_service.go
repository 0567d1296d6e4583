package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/repository"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/service/grading"
)

// DefaultCompletionGrace — допуск после дедлайна попытки, поглощающий сетевые
// задержки финальной отправки. После него попытка закрыта для записи.
const DefaultCompletionGrace = 5 * time.Second

// questionCacheKey — ключ кеша набора вопросов викторины
func questionCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:questions:%d", quizID)
}

// AttemptService — менеджер жизненного цикла попыток: старт, приём ответов,
// завершение с оценкой, принудительное истечение. Все зависимости передаются
// при конструировании, никакого ambient-состояния.
type AttemptService struct {
	contentRepo repository.ContentRepository
	attemptRepo repository.AttemptRepository
	cacheRepo   repository.CacheRepository // опционален: nil отключает кеширование
	gate        *AccessGate
	grace       time.Duration
	now         func() time.Time
}

// NewAttemptService создает новый менеджер попыток
func NewAttemptService(
	contentRepo repository.ContentRepository,
	attemptRepo repository.AttemptRepository,
	cacheRepo repository.CacheRepository,
	gate *AccessGate,
) *AttemptService {
	return &AttemptService{
		contentRepo: contentRepo,
		attemptRepo: attemptRepo,
		cacheRepo:   cacheRepo,
		gate:        gate,
		grace:       DefaultCompletionGrace,
		now:         time.Now,
	}
}

// SetCompletionGrace переопределяет допуск после дедлайна.
// Отрицательные значения игнорируются.
func (s *AttemptService) SetCompletionGrace(grace time.Duration) {
	if grace >= 0 {
		s.grace = grace
	}
}

// StartAttemptResult — результат операции старта попытки
type StartAttemptResult struct {
	AttemptID    uint      `json:"attempt_id"`
	QuizID       uint      `json:"quiz_id"`
	StartedAt    time.Time `json:"started_at"`
	TimeLimitSec int       `json:"time_limit_sec"`
	Resumed      bool      `json:"resumed"`
}

// CompletionResult — результат завершения попытки
type CompletionResult struct {
	AttemptID      uint      `json:"attempt_id"`
	Score          float64   `json:"score"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// AttemptDetail — попытка с ответами для чтения владельцем или админом
type AttemptDetail struct {
	Attempt   entity.Attempt      `json:"attempt"`
	Answers   []entity.UserAnswer `json:"answers"`
	QuizTitle string              `json:"quiz_title"`
}

// AttemptHistoryItem — элемент истории попыток пользователя
type AttemptHistoryItem struct {
	AttemptID   uint       `json:"attempt_id"`
	QuizID      uint       `json:"quiz_id"`
	QuizTitle   string     `json:"quiz_title"`
	Score       *float64   `json:"score,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StartAttempt начинает (или возобновляет) попытку прохождения викторины.
//
// Семантика resume: если у пары (user, quiz) уже есть открытая попытка,
// она возвращается как есть — дубликат не создаётся. Лимит времени
// фиксируется в попытке на момент старта.
func (s *AttemptService) StartAttempt(ctx context.Context, quizID uint) (*StartAttemptResult, error) {
	caller, err := s.gate.Caller(ctx)
	if err != nil {
		return nil, err
	}

	quiz, err := s.contentRepo.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("quiz #%d: %w", quizID, apperrors.ErrNotFound)
		}
		return nil, storageErr("loading quiz", err)
	}

	if err := s.gate.AuthorizeStart(caller, quiz); err != nil {
		return nil, err
	}

	// Открытая попытка уже есть — возобновляем её
	existing, err := s.attemptRepo.GetOpenAttempt(caller.UserID, quizID)
	if err == nil {
		return resumeResult(existing), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, storageErr("loading open attempt", err)
	}

	attempt := &entity.Attempt{
		UserID:       caller.UserID,
		QuizID:       quizID,
		TimeLimitSec: quiz.EffectiveTimeLimit(),
		StartedAt:    s.now(),
	}

	if err := s.attemptRepo.CreateOpenAttempt(attempt); err != nil {
		// Гонка двух одновременных стартов: проигравший перечитывает
		// выигравшую попытку и возвращает её как resume
		if errors.Is(err, repository.ErrOpenAttemptExists) {
			winner, rerr := s.attemptRepo.GetOpenAttempt(caller.UserID, quizID)
			if rerr != nil {
				return nil, storageErr("re-reading open attempt after race", rerr)
			}
			return resumeResult(winner), nil
		}
		return nil, storageErr("creating attempt", err)
	}

	// Прогреваем кеш вопросов на время попытки (best effort)
	s.warmQuestionCache(quizID, attempt.TimeLimitSec)

	log.Printf("[AttemptService] Пользователь #%d начал попытку #%d викторины #%d (лимит %d сек)",
		caller.UserID, attempt.ID, quizID, attempt.TimeLimitSec)

	return &StartAttemptResult{
		AttemptID:    attempt.ID,
		QuizID:       quizID,
		StartedAt:    attempt.StartedAt,
		TimeLimitSec: attempt.TimeLimitSec,
	}, nil
}

// SubmitAnswer сохраняет ответ на один вопрос внутри открытой попытки.
// Повторный ответ на тот же вопрос заменяет предыдущий — это позволяет менять
// решение до финальной отправки.
func (s *AttemptService) SubmitAnswer(ctx context.Context, attemptID, questionID, optionID uint) error {
	caller, err := s.gate.Caller(ctx)
	if err != nil {
		return err
	}

	attempt, err := s.loadAttempt(attemptID)
	if err != nil {
		return err
	}

	if err := s.gate.AuthorizeMutation(caller, attempt); err != nil {
		return err
	}

	if attempt.IsCompleted() {
		return fmt.Errorf("attempt #%d: %w", attemptID, apperrors.ErrAttemptCompleted)
	}
	// Просроченная попытка закрыта для записи, даже если sweeper её ещё не завершил
	if attempt.IsExpired(s.now(), s.grace) {
		return fmt.Errorf("attempt #%d deadline passed: %w", attemptID, apperrors.ErrAttemptCompleted)
	}

	if err := s.validateAnswer(attempt.QuizID, attempt.TimeLimitSec, questionID, optionID); err != nil {
		return err
	}

	if err := s.attemptRepo.UpsertAnswer(attemptID, questionID, optionID); err != nil {
		return storageErr("saving answer", err)
	}
	return nil
}

// CompleteAttempt завершает попытку и подсчитывает результат.
//
// Если переданы finalAnswers (question_id → option_id), они сохраняются перед
// оценкой — это путь "отправить всю викторину одним вызовом". Оценивается
// полный текущий набор ответов попытки. Завершение атомарно: из двух
// конкурирующих вызовов ровно один выигрывает, второй получает
// ErrAttemptCompleted, и повторная оценка не происходит.
func (s *AttemptService) CompleteAttempt(ctx context.Context, attemptID uint, finalAnswers map[uint]uint) (*CompletionResult, error) {
	caller, err := s.gate.Caller(ctx)
	if err != nil {
		return nil, err
	}

	attempt, err := s.loadAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.AuthorizeMutation(caller, attempt); err != nil {
		return nil, err
	}

	if attempt.IsCompleted() {
		return nil, fmt.Errorf("attempt #%d: %w", attemptID, apperrors.ErrAttemptCompleted)
	}

	questions, err := s.loadQuestions(attempt.QuizID, attempt.TimeLimitSec)
	if err != nil {
		return nil, err
	}

	// После дедлайна новые ответы не принимаются: оцениваем только то,
	// что было отправлено вовремя
	late := attempt.IsExpired(s.now(), s.grace)
	if late && len(finalAnswers) > 0 {
		log.Printf("[AttemptService] Попытка #%d завершается после дедлайна: %d финальных ответов отброшено",
			attemptID, len(finalAnswers))
	}
	if !late {
		for questionID, optionID := range finalAnswers {
			if err := s.validateAnswer(attempt.QuizID, attempt.TimeLimitSec, questionID, optionID); err != nil {
				return nil, err
			}
			if err := s.attemptRepo.UpsertAnswer(attemptID, questionID, optionID); err != nil {
				return nil, storageErr("saving final answer", err)
			}
		}
	}

	answers, err := s.attemptRepo.GetAnswers(attemptID)
	if err != nil {
		return nil, storageErr("loading answers", err)
	}

	summary := grading.Grade(questions, grading.AnswerMap(answers))
	completedAt := s.now()

	rows, err := s.attemptRepo.CompleteAttempt(attemptID, summary.Score, completedAt)
	if err != nil {
		return nil, storageErr("completing attempt", err)
	}
	if rows == 0 {
		// Конкурирующее завершение выиграло гонку: оценка уже записана, не перетираем
		return nil, fmt.Errorf("attempt #%d completed concurrently: %w", attemptID, apperrors.ErrAttemptCompleted)
	}

	log.Printf("[AttemptService] Попытка #%d завершена: %d/%d, score=%.2f",
		attemptID, summary.CorrectCount, summary.TotalQuestions, summary.Score)

	return &CompletionResult{
		AttemptID:      attemptID,
		Score:          summary.Score,
		CorrectCount:   summary.CorrectCount,
		TotalQuestions: summary.TotalQuestions,
		CompletedAt:    completedAt,
	}, nil
}

// GetAttemptDetail возвращает попытку с ответами. Доступно владельцу и админу.
func (s *AttemptService) GetAttemptDetail(ctx context.Context, attemptID uint) (*AttemptDetail, error) {
	caller, err := s.gate.Caller(ctx)
	if err != nil {
		return nil, err
	}

	attempt, err := s.loadAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.AuthorizeRead(caller, attempt); err != nil {
		return nil, err
	}

	answers, err := s.attemptRepo.GetAnswers(attemptID)
	if err != nil {
		return nil, storageErr("loading answers", err)
	}

	return &AttemptDetail{
		Attempt:   *attempt,
		Answers:   answers,
		QuizTitle: s.quizTitle(attempt.QuizID),
	}, nil
}

// ListUserAttempts возвращает историю попыток вызывающего пользователя
func (s *AttemptService) ListUserAttempts(ctx context.Context, limit, offset int) ([]AttemptHistoryItem, error) {
	caller, err := s.gate.Caller(ctx)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.ListByUser(caller.UserID, limit, offset)
	if err != nil {
		return nil, storageErr("listing attempts", err)
	}

	items := make([]AttemptHistoryItem, 0, len(attempts))
	for _, a := range attempts {
		items = append(items, AttemptHistoryItem{
			AttemptID:   a.ID,
			QuizID:      a.QuizID,
			QuizTitle:   s.quizTitle(a.QuizID),
			Score:       a.Score,
			StartedAt:   a.StartedAt,
			CompletedAt: a.CompletedAt,
		})
	}
	return items, nil
}

// ExpireStaleAttempts принудительно завершает открытые попытки с истёкшим
// дедлайном, оценивая их по ответам, накопленным к этому моменту.
// Запускается периодически из фонового sweeper-а. Возвращает число завершённых.
//
// Гонка с пользовательским CompleteAttempt безопасна: обе стороны проходят
// через guarded UPDATE, и выигрывает ровно одна.
func (s *AttemptService) ExpireStaleAttempts(ctx context.Context, batchSize int) (int, error) {
	stale, err := s.attemptRepo.ListExpiredOpen(s.now(), s.grace, batchSize)
	if err != nil {
		return 0, storageErr("listing expired attempts", err)
	}

	expired := 0
	for i := range stale {
		attempt := &stale[i]

		questions, err := s.loadQuestions(attempt.QuizID, attempt.TimeLimitSec)
		if err != nil {
			log.Printf("[AttemptService] Sweeper: не удалось загрузить вопросы для попытки #%d: %v", attempt.ID, err)
			continue
		}
		answers, err := s.attemptRepo.GetAnswers(attempt.ID)
		if err != nil {
			log.Printf("[AttemptService] Sweeper: не удалось загрузить ответы попытки #%d: %v", attempt.ID, err)
			continue
		}

		summary := grading.Grade(questions, grading.AnswerMap(answers))
		rows, err := s.attemptRepo.CompleteAttempt(attempt.ID, summary.Score, s.now())
		if err != nil {
			log.Printf("[AttemptService] Sweeper: ошибка завершения попытки #%d: %v", attempt.ID, err)
			continue
		}
		if rows == 0 {
			// Пользователь успел завершить сам — ничего не делаем
			continue
		}

		expired++
		log.Printf("[AttemptService] Sweeper: попытка #%d истекла и завершена принудительно (score=%.2f)",
			attempt.ID, summary.Score)
	}

	return expired, nil
}

// loadAttempt возвращает попытку или типизированную ошибку
func (s *AttemptService) loadAttempt(attemptID uint) (*entity.Attempt, error) {
	attempt, err := s.attemptRepo.GetAttempt(attemptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("attempt #%d: %w", attemptID, apperrors.ErrNotFound)
		}
		return nil, storageErr("loading attempt", err)
	}
	return attempt, nil
}

// validateAnswer проверяет принадлежность вопроса викторине и варианта — вопросу
func (s *AttemptService) validateAnswer(quizID uint, timeLimitSec int, questionID, optionID uint) error {
	questions, err := s.loadQuestions(quizID, timeLimitSec)
	if err != nil {
		return err
	}

	var question *entity.Question
	for i := range questions {
		if questions[i].ID == questionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return fmt.Errorf("question #%d is not part of quiz #%d: %w", questionID, quizID, apperrors.ErrQuestionMismatch)
	}

	if question.HasOption(optionID) {
		return nil
	}
	// Кеш мог устареть относительно контента — сверяемся с хранилищем
	belongs, err := s.contentRepo.OptionBelongsToQuestion(optionID, questionID)
	if err != nil {
		return storageErr("checking option", err)
	}
	if !belongs {
		return fmt.Errorf("option #%d does not belong to question #%d: %w", optionID, questionID, apperrors.ErrInvalidOption)
	}
	return nil
}

// loadQuestions возвращает вопросы викторины, по возможности из кеша.
// Ошибки кеша не фатальны: всегда есть откат на хранилище контента.
func (s *AttemptService) loadQuestions(quizID uint, timeLimitSec int) ([]entity.Question, error) {
	key := questionCacheKey(quizID)

	if s.cacheRepo != nil {
		var cached []entity.Question
		if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AttemptService] Ошибка чтения кеша вопросов %s: %v", key, err)
		}
	}

	questions, err := s.contentRepo.GetQuestionsWithOptions(quizID)
	if err != nil {
		return nil, storageErr("loading questions", err)
	}

	if s.cacheRepo != nil {
		ttl := time.Duration(timeLimitSec) * time.Second
		if err := s.cacheRepo.SetJSON(key, questions, ttl); err != nil {
			log.Printf("[AttemptService] Ошибка записи кеша вопросов %s: %v", key, err)
		}
	}

	return questions, nil
}

// warmQuestionCache прогревает кеш вопросов при старте попытки (best effort)
func (s *AttemptService) warmQuestionCache(quizID uint, timeLimitSec int) {
	if s.cacheRepo == nil {
		return
	}
	if _, err := s.loadQuestions(quizID, timeLimitSec); err != nil {
		log.Printf("[AttemptService] Не удалось прогреть кеш вопросов викторины #%d: %v", quizID, err)
	}
}

// quizTitle возвращает название викторины или "Unknown", если она удалена
func (s *AttemptService) quizTitle(quizID uint) string {
	quiz, err := s.contentRepo.GetQuiz(quizID)
	if err != nil {
		return "Unknown"
	}
	return quiz.Title
}

func resumeResult(attempt *entity.Attempt) *StartAttemptResult {
	return &StartAttemptResult{
		AttemptID:    attempt.ID,
		QuizID:       attempt.QuizID,
		StartedAt:    attempt.StartedAt,
		TimeLimitSec: attempt.TimeLimitSec,
		Resumed:      true,
	}
}

// storageErr помечает неожиданную ошибку хранилища как временную:
// вызывающая сторона может безопасно повторить запрос (все операции идемпотентны
// или защищены guarded UPDATE).
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w (%v)", op, apperrors.ErrUnavailable, err)
}
