package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/practicehub/catalog-api/internal/cache"
	"github.com/practicehub/catalog-api/internal/config"
	"github.com/practicehub/catalog-api/internal/constants"
	"github.com/practicehub/catalog-api/internal/database"
	"github.com/practicehub/catalog-api/internal/handlers"
	"github.com/practicehub/catalog-api/internal/logging"
	"github.com/practicehub/catalog-api/internal/middleware"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/security"
	"github.com/practicehub/catalog-api/internal/services"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogFile, cfg.GinMode != gin.ReleaseMode)
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	refCache := cache.New(rdb, constants.ReferenceCacheTTL, logger)

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	refRepo := repository.NewReferenceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	solutionRepo := repository.NewSolutionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authService := services.NewAuthService(userRepo)
	refService := services.NewReferenceService(refRepo, refCache, logger)
	taskService := services.NewTaskService(taskRepo, refRepo)
	solutionService := services.NewSolutionService(solutionRepo, taskRepo, refRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, solutionRepo, logger)

	tokens := security.NewTokenManager(cfg.JWTSecret,
		constants.AccessTokenTTL, constants.RefreshTokenTTL)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	secureCookie := cfg.GinMode == gin.ReleaseMode
	authHandler := handlers.NewAuthHandler(authService, tokens, secureCookie, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	solutionHandler := handlers.NewSolutionHandler(solutionService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)
	refHandler := handlers.NewReferenceHandler(refService, logger)

	registerRoutes(r, tokens, authHandler, taskHandler, solutionHandler, reviewHandler, refHandler)

	logger.Info("starting server", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func registerRoutes(
	r *gin.Engine,
	tokens *security.TokenManager,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	solutionHandler *handlers.SolutionHandler,
	reviewHandler *handlers.ReviewHandler,
	refHandler *handlers.ReferenceHandler,
) {
	r.RedirectTrailingSlash = true

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.RequireAuth(tokens), authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", middleware.OptionalAuth(tokens), taskHandler.ListTasks)
		tasks.GET("/:id", middleware.OptionalAuth(tokens), taskHandler.GetTask)
		tasks.POST("", middleware.RequireAuth(tokens), taskHandler.CreateTask)
		tasks.PATCH("/:id", middleware.RequireAuth(tokens), taskHandler.UpdateTask)
		tasks.DELETE("/:id", middleware.RequireAuth(tokens), taskHandler.DeleteTask)
	}

	solutions := api.Group("/solutions")
	{
		solutions.GET("", middleware.OptionalAuth(tokens), solutionHandler.ListSolutions)
		solutions.GET("/:id", middleware.OptionalAuth(tokens), solutionHandler.GetSolution)
		solutions.POST("", middleware.RequireAuth(tokens), solutionHandler.CreateSolution)
		solutions.PATCH("/:id", middleware.RequireAuth(tokens), solutionHandler.UpdateSolution)
		solutions.DELETE("/:id", middleware.RequireAuth(tokens), solutionHandler.DeleteSolution)
		solutions.POST("/:id/publish", middleware.RequireAuth(tokens), solutionHandler.PublishSolution)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", middleware.RequireAuth(tokens), reviewHandler.ListReviews)
		reviews.POST("", middleware.RequireAuth(tokens), reviewHandler.CreateReview)
	}

	staff := []gin.HandlerFunc{middleware.RequireAuth(tokens), middleware.RequireStaff()}

	categories := api.Group("/categories")
	{
		categories.GET("", refHandler.ListCategories)
		categories.POST("", append(staff, refHandler.CreateCategory)...)
		categories.PATCH("/:id", append(staff, refHandler.UpdateCategory)...)
		categories.DELETE("/:id", append(staff, refHandler.DeleteCategory)...)
	}

	difficulties := api.Group("/difficulties")
	{
		difficulties.GET("", refHandler.ListDifficulties)
		difficulties.POST("", append(staff, refHandler.CreateDifficulty)...)
		difficulties.PATCH("/:id", append(staff, refHandler.UpdateDifficulty)...)
		difficulties.DELETE("/:id", append(staff, refHandler.DeleteDifficulty)...)
	}

	languages := api.Group("/languages")
	{
		languages.GET("", refHandler.ListLanguages)
		languages.POST("", append(staff, refHandler.CreateLanguage)...)
		languages.PATCH("/:id", append(staff, refHandler.UpdateLanguage)...)
		languages.DELETE("/:id", append(staff, refHandler.DeleteLanguage)...)
	}
}
