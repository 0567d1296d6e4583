package service

import (
	"context"
	"fmt"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/repository"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
)

// AccessGate — шлюз авторизации ядра попыток. Вызывается перед каждой операцией
// жизненного цикла; при отказе отклоняет операцию целиком, а не сужает результат.
//
// Правила:
//   - StartAttempt: любой аутентифицированный пользователь; неопубликованные
//     викторины доступны только администратору (режим превью);
//   - SubmitAnswer / CompleteAttempt: только владелец попытки, роль не имеет
//     значения (админ не отвечает за других);
//   - чтение деталей попытки: владелец или администратор.
type AccessGate struct {
	identity repository.IdentityProvider
}

// NewAccessGate создает новый шлюз авторизации
func NewAccessGate(identity repository.IdentityProvider) *AccessGate {
	return &AccessGate{identity: identity}
}

// Caller разрешает идентичность вызывающей стороны из контекста запроса
func (g *AccessGate) Caller(ctx context.Context) (entity.Caller, error) {
	caller, err := g.identity.CurrentCaller(ctx)
	if err != nil {
		return entity.Caller{}, fmt.Errorf("resolving caller: %w", apperrors.ErrUnauthorized)
	}
	return caller, nil
}

// AuthorizeStart проверяет право на старт попытки для викторины
func (g *AccessGate) AuthorizeStart(caller entity.Caller, quiz *entity.Quiz) error {
	if quiz.IsPublished || caller.IsAdmin() {
		return nil
	}
	return fmt.Errorf("quiz #%d is unpublished: %w", quiz.ID, apperrors.ErrQuizNotAvailable)
}

// AuthorizeMutation проверяет право на запись в попытку (ответы, завершение).
// Только владелец: администратор не может отправлять ответы от чужого имени.
func (g *AccessGate) AuthorizeMutation(caller entity.Caller, attempt *entity.Attempt) error {
	if attempt.UserID != caller.UserID {
		return fmt.Errorf("attempt #%d belongs to another user: %w", attempt.ID, apperrors.ErrForbidden)
	}
	return nil
}

// AuthorizeRead проверяет право на чтение деталей попытки: владелец или админ
func (g *AccessGate) AuthorizeRead(caller entity.Caller, attempt *entity.Attempt) error {
	if attempt.UserID == caller.UserID || caller.IsAdmin() {
		return nil
	}
	return fmt.Errorf("attempt #%d is not visible to user #%d: %w", attempt.ID, caller.UserID, apperrors.ErrForbidden)
}
