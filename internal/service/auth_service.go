package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/repository"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/pkg/auth"
)

// Ошибки аутентификации
var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	// Не раскрывает, существует ли пользователь.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken возвращается при регистрации на занятый email.
	ErrEmailTaken = errors.New("email is already registered")
)

// AuthService — тонкий коллаборатор идентичности: регистрация и вход.
// Ядро попыток с ним не связано и видит только caller-а из токена.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// Register создает нового пользователя с ролью "user".
// Пароль хешируется bcrypt-ом в хуке entity.User.BeforeSave.
func (s *AuthService) Register(email, password, fullName string) (*entity.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%s: %w", email, ErrEmailTaken)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	user := &entity.User{
		Email:        email,
		Password:     password,
		FullName:     fullName,
		Role:         entity.RoleUser,
		LastActivity: time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь #%d (%s)", user.ID, user.Email)
	return user, nil
}

// Login проверяет учётные данные и выпускает access-токен
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("loading user: %w", err)
	}

	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}

	// Отметка активности для внешних reminder-джобов; сбой не мешает входу
	if err := s.userRepo.TouchLastActivity(user.ID); err != nil {
		log.Printf("[AuthService] Не удалось обновить last_activity пользователя #%d: %v", user.ID, err)
	}

	return token, user, nil
}
