package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/config"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/handler"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/middleware"
	pgRepo "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/repository/postgres"
	redisRepo "github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/repository/redis"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/service"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/pkg/auth"
	"github.com/AdroitPhilocalist/quiz-master-22F3000921/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	contentRepo := pgRepo.NewContentRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT-сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем middleware до сервисов: ContextIdentity — источник
	// вызывающего для авторизационных проверок внутри ядра.
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	identity := middleware.NewContextIdentity()

	// Инициализируем сервисы
	gate := service.NewAccessGate(identity)
	attemptService := service.NewAttemptService(contentRepo, attemptRepo, cacheRepo, gate)
	attemptService.SetCompletionGrace(time.Duration(cfg.Attempt.CompletionGraceSec) * time.Second)

	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(contentRepo)
	attemptHandler := handler.NewAttemptHandler(attemptService)

	// Корневой контекст приложения: отменяется при остановке сервера
	// и завершает фоновые горутины.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Фоновая очистка просроченных попыток: попытки, чей дедлайн с допуском
	// прошёл, принудительно завершаются с оценкой по сохранённым ответам.
	go func() {
		interval := time.Duration(cfg.Attempt.SweepIntervalSec) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("Запуск механизма периодической очистки просроченных попыток (каждые %s)", interval)

		for {
			select {
			case <-ticker.C:
				expired, err := attemptService.ExpireStaleAttempts(ctx, cfg.Attempt.SweepBatchSize)
				if err != nil {
					log.Printf("Ошибка при очистке просроченных попыток: %v", err)
				} else if expired > 0 {
					log.Printf("Принудительно завершено просроченных попыток: %d", expired)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки попыток")
				return
			}
		}
	}()

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация (строгий rate limit против перебора)
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Контент викторин
		quizzes := api.Group("/quizzes")
		quizzes.Use(authMiddleware.RequireAuth())
		{
			quizzes.GET("", quizHandler.ListQuizzes)

			quizWithID := quizzes.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("/questions", quizHandler.GetQuizQuestions)
				quizWithID.POST("/attempt",
					rateLimiter.Limit(middleware.AttemptRateLimitConfig()),
					attemptHandler.StartAttempt)
			}
		}

		// Жизненный цикл попыток
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attemptWithID := attempts.Group("/:id")
			attemptWithID.Use(middleware.ExtractUintParam("id", "attemptID"))
			{
				attemptWithID.GET("", attemptHandler.GetAttempt)
				attemptWithID.POST("/answers",
					rateLimiter.Limit(middleware.AttemptRateLimitConfig()),
					attemptHandler.SubmitAnswer)
				attemptWithID.PUT("", attemptHandler.CompleteAttempt)
			}
		}

		// История попыток текущего пользователя
		user := api.Group("/user")
		user.Use(authMiddleware.RequireAuth())
		{
			user.GET("/attempts", attemptHandler.ListMyAttempts)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждём SIGINT/SIGTERM, затем останавливаем фоновые горутины и сервер
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
