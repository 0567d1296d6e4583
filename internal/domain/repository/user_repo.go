package repository

import (
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// TouchLastActivity точечно обновляет отметку последней активности
	TouchLastActivity(userID uint) error
}
