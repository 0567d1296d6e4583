package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
	apperrors "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/pkg/errors"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/pkg/auth"
)

// callerContextKey — типизированный ключ для caller-а в request context
type callerContextKey struct{}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth проверяет токен доступа и кладёт caller-а в request context,
// откуда его достаёт ContextIdentity (реализация IdentityProvider для ядра).
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		caller := entity.Caller{UserID: claims.UserID, Role: claims.Role}

		// Дублируем в gin context для хендлеров и в request context для ядра
		c.Set("caller", caller)
		ctx := context.WithValue(c.Request.Context(), callerContextKey{}, caller)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminOnly проверяет, является ли пользователь администратором.
// Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("caller")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		caller, ok := value.(entity.Caller)
		if !ok || !caller.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin rights required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ContextIdentity реализует repository.IdentityProvider поверх request context.
// Единственная точка, где транспортная аутентификация встречается с ядром.
type ContextIdentity struct{}

// NewContextIdentity создает провайдер идентичности на основе request context
func NewContextIdentity() ContextIdentity {
	return ContextIdentity{}
}

// CurrentCaller возвращает caller-а, положенного в контекст RequireAuth-ом
func (ContextIdentity) CurrentCaller(ctx context.Context) (entity.Caller, error) {
	caller, ok := ctx.Value(callerContextKey{}).(entity.Caller)
	if !ok {
		return entity.Caller{}, apperrors.ErrUnauthorized
	}
	return caller, nil
}
