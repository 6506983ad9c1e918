package middleware

import (
	"net/http"
	"strings"

	"mentora/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет Bearer-токен и кладет userId в контекст.
// Без валидного токена запрос не проходит.
func AuthMiddleware(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// OptionalAuth — то же, но анонимов пропускает дальше как гостей.
// Кривой токен тоже трактуем как гостя, а не как ошибку.
func OptionalAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			parts := strings.Split(header, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if userID, err := tokens.ValidateAccessToken(parts[1]); err == nil {
					c.Set("userId", userID)
				}
			}
		}
		c.Next()
	}
}
