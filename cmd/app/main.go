package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"mentora/config"
	"mentora/internal/application/usecase"
	"mentora/internal/domain"
	"mentora/internal/infrastructure/cache"
	"mentora/internal/infrastructure/repository"
	"mentora/internal/infrastructure/security"
	"mentora/internal/infrastructure/tutor"
	"mentora/internal/middleware"
	"mentora/internal/seed"
	transport "mentora/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. Конфиг
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Postgres
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.UserProfile{},
		&domain.Level{},
		&domain.XPTransaction{},
		&domain.Badge{},
		&domain.UserBadge{},
		&domain.LoginHistory{},
		&domain.SubjectProgress{},
		&domain.Conversation{},
		&domain.Plan{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	// 3. Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// 4. Инфраструктура
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db, rdb)

	tokenCache := cache.NewTokenCache(rdb)
	guestSessions := cache.NewGuestSessions(rdb)

	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	// Клиентский таймаут чуть шире контекстного в оркестраторе
	provider := tutor.NewClient(cfg.TutorBaseURL, cfg.TutorAPIKey, cfg.TutorModel, 20*time.Second)

	guestUser, err := userRepo.GetOrCreateGuest(context.Background())
	if err != nil {
		log.Fatalf("failed to create guest user: %v", err)
	}

	// 5. Логика
	gamification := usecase.NewGamificationUseCase(db, profileRepo)
	progress := usecase.NewProgressEngine(db)
	chat := usecase.NewChatUseCase(profileRepo, conversationRepo, progress, gamification,
		provider, guestSessions, guestUser.ID)
	auth := usecase.NewAuthUseCase(userRepo, profileRepo, gamification, hasher, tokens, tokenCache)

	// 6. HTTP
	router := transport.NewRouter(
		tokens,
		middleware.NewRateLimiter(rdb),
		transport.NewAuthHandler(auth),
		transport.NewChatHandler(chat),
		transport.NewProfileHandler(gamification, catalogRepo),
	)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
