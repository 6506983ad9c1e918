package http

import (
	"net/http"
	"time"

	"mentora/internal/infrastructure/security"
	"mentora/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter собирает все маршруты. Чат и карта дней открыты гостям
// (OptionalAuth), кабинет и удаление истории требуют токен.
func NewRouter(
	tokens *security.TokenManager,
	limiter *middleware.RateLimiter,
	auth *AuthHandler,
	chat *ChatHandler,
	profile *ProfileHandler,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Server running"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", auth.Signup)
		authGroup.POST("/login", limiter.Limit("login", 10, 1*time.Minute), auth.Login)
		authGroup.POST("/refresh", auth.Refresh)
		authGroup.POST("/logout", auth.Logout)
	}

	optional := router.Group("/", middleware.OptionalAuth(tokens))
	{
		optional.POST("/ask/", limiter.Limit("ask", 30, 1*time.Minute), chat.Ask)
		optional.GET("/history/", chat.History)
		optional.GET("/subject-days/", chat.SubjectDays)
		optional.GET("/plans/", profile.Plans)
	}

	protected := router.Group("/", middleware.AuthMiddleware(tokens))
	{
		protected.POST("/history/delete/:id/", chat.DeleteConversation)
		protected.GET("/dashboard/", profile.Dashboard)
		protected.PUT("/account/interests", profile.UpdateInterests)
	}

	return router
}
