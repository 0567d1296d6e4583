package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/pkg/auth"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) TouchLastActivity(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func newAuthService(t *testing.T, userRepo *MockUserRepo) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	svc, err := NewAuthService(userRepo, jwtService)
	require.NoError(t, err)
	return svc
}

func hashedUser(t *testing.T, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID:           7,
		Email:        "student@example.com",
		Password:     string(hash),
		Role:         entity.RoleUser,
		LastActivity: time.Now(),
	}
}

func TestRegister_CreatesUserWithUserRole(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepo)
	svc := newAuthService(t, userRepo)

	userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 12
		}).
		Return(nil)

	// Act
	user, err := svc.Register("new@example.com", "password123", "New Student")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(12), user.ID)
	assert.Equal(t, entity.RoleUser, user.Role, "самостоятельная регистрация не выдаёт админских прав")
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newAuthService(t, userRepo)

	userRepo.On("GetByEmail", "taken@example.com").Return(hashedUser(t, "x"), nil)

	_, err := svc.Register("taken@example.com", "password123", "")

	assert.ErrorIs(t, err, ErrEmailTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepo)
	svc := newAuthService(t, userRepo)
	user := hashedUser(t, "password123")

	userRepo.On("GetByEmail", user.Email).Return(user, nil)
	userRepo.On("TouchLastActivity", user.ID).Return(nil)

	// Act
	token, got, err := svc.Login(user.Email, "password123")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newAuthService(t, userRepo)
	user := hashedUser(t, "password123")

	userRepo.On("GetByEmail", user.Email).Return(user, nil)

	_, _, err := svc.Login(user.Email, "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Та же ошибка, что и при неверном пароле: существование аккаунта не раскрывается
	userRepo := new(MockUserRepo)
	svc := newAuthService(t, userRepo)

	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	_, _, err := svc.Login("ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
