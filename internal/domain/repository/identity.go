package repository

import (
	"context"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// IdentityProvider разрешает идентичность вызывающей стороны из request context.
// Реализуется транспортным слоем (JWT middleware кладёт caller-а в контекст);
// ядро попыток зависит только от этого контракта.
type IdentityProvider interface {
	// CurrentCaller возвращает caller-а или apperrors.ErrUnauthorized,
	// если запрос не аутентифицирован.
	CurrentCaller(ctx context.Context) (entity.Caller, error)
}
