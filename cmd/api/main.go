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

	"github.com/yourusername/triviago-api/internal/config"
	"github.com/yourusername/triviago-api/internal/handler"
	"github.com/yourusername/triviago-api/internal/middleware"
	pgRepo "github.com/yourusername/triviago-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/triviago-api/internal/repository/redis"
	"github.com/yourusername/triviago-api/internal/service"
	"github.com/yourusername/triviago-api/internal/service/gamemanager"
	ws "github.com/yourusername/triviago-api/internal/websocket"
	"github.com/yourusername/triviago-api/pkg/auth"
	"github.com/yourusername/triviago-api/pkg/database"
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
	questionRepo := pgRepo.NewQuestionRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем WebSocket хаб
	wsHub := ws.NewHub()
	go wsHub.Run()
	wsManager := ws.NewManager(wsHub)

	// Инициализируем игровой движок
	gameConfig := gamemanager.DefaultConfig()
	gameConfig.TurnLockTTL = time.Duration(cfg.Game.TurnLockTTLSec) * time.Second
	gameConfig.MaxUpdateAttempts = cfg.Game.MaxUpdateAttempts

	rng := gamemanager.NewDefaultRand()
	gameDeps := &gamemanager.Dependencies{
		GameRepo:     gameRepo,
		QuestionRepo: questionRepo,
		UserRepo:     userRepo,
		CacheRepo:    cacheRepo,
		EventSink:    wsManager,
		Rand:         rng,
	}
	turnProcessor := gamemanager.NewTurnProcessor(gameConfig, gameDeps)

	// Дозаписываем статистику игр, завершенных до перезапуска
	statsAggregator := gamemanager.NewStatsAggregator(gameConfig, gameDeps)
	go func() {
		if err := statsAggregator.RecoverPending(context.Background()); err != nil {
			log.Printf("Failed to recover pending game stats: %v", err)
		}
	}()

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo)
	questionService := service.NewQuestionService(questionRepo, rng)
	gameService := service.NewGameService(gameRepo, userRepo, turnProcessor, gameConfig, rng, wsManager, cfg.Game.DefaultMaxPlayers)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	questionHandler := handler.NewQuestionHandler(questionService)
	gameHandler := handler.NewGameHandler(gameService)
	wsHandler := handler.NewWSHandler(wsHub, gameService, jwtService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()

	if gin.Mode() == gin.ReleaseMode {
		// Production: не доверять прокси-заголовкам.
		// Если используете load balancer, замените nil на его IP
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	api.Use(rateLimiter.LimitByIP(middleware.DefaultAPIRateLimitConfig()))
	{
		authGroup := api.Group("/auth")
		{
			strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strictLimit, authHandler.Register)
			authGroup.POST("/login", strictLimit, authHandler.Login)
		}

		users := api.Group("/users")
		{
			users.GET("/me", authMiddleware.RequireAuth(), userHandler.GetMe)
			users.GET("/:user_id", middleware.ExtractUintParam("user_id", "param_user_id"), userHandler.GetUser)
		}

		api.GET("/leaderboard", userHandler.GetLeaderboard)

		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.POST("", questionHandler.CreateQuestion)
			questions.POST("/import", questionHandler.ImportQuestions)
		}

		games := api.Group("/games")
		games.Use(authMiddleware.RequireAuth())
		{
			games.POST("", gameHandler.CreateGame)
			games.GET("", gameHandler.ListGames)

			gameWithID := games.Group("/:game_id")
			gameWithID.Use(middleware.ExtractUUIDParam("game_id", "param_game_id"))
			{
				gameWithID.GET("", gameHandler.GetGame)
				gameWithID.POST("/join", gameHandler.JoinGame)
				gameWithID.POST("/start", gameHandler.StartGame)
				gameWithID.POST("/play", gameHandler.PlayTurn)
			}
		}
	}

	// WebSocket-подписка на события игры
	router.GET("/ws/:game_id", middleware.ExtractUUIDParam("game_id", "param_game_id"), wsHandler.HandleConnection)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

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

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем WebSocket хаб
	wsHub.Shutdown()

	// Graceful shutdown HTTP сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
