package middleware

import (
	"errors"
	"strings"

	"achatavis_backend/internal/auth"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/pkg/apperrors"
	"achatavis_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.AbortWithError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apperrors.AbortWithError(c, apperrors.New(apperrors.CodeTokenExpired, "auth", "Token expired", 401))
				return
			}
			apperrors.AbortWithError(c, apperrors.New(apperrors.CodeInvalidToken, "auth", "Invalid token", 401))
			return
		}

		// Сохраняем claims в gin и в request context для логгера
		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.RoleKey), claims.Role)
		ctx := logger.WithUser(c.Request.Context(), claims.UserID, string(claims.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по роли
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireRoles - пропускает любую из перечисленных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(string(contextkeys.UserIDKey))
}

// GetRole извлекает роль из контекста (роль может лежать как string)
func GetRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(string(contextkeys.RoleKey))
	if !exists {
		return "", false
	}
	switch role := roleVal.(type) {
	case models.UserRole:
		return role, true
	case string:
		return models.UserRole(role), true
	default:
		return "", false
	}
}
