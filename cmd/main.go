package main

import (
	"context"
	"log"
	"os"
	"time"

	"coursetrack-backend/config"
	httpDelivery "coursetrack-backend/internal/delivery/http"
	"coursetrack-backend/internal/repository"
	"coursetrack-backend/internal/usecase"
	"coursetrack-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appLogger, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLogger.Sync()

	// Connect to databases
	db := config.ConnectDB()

	// Auto migrate
	if err := config.AutoMigrate(db.PG); err != nil {
		log.Fatal("Migration failed:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := config.EnsureIndexes(ctx, db.Mongo); err != nil {
		log.Fatal("Index creation failed:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.PG)
	courseRepo := repository.NewCourseRepository(db.PG)
	watchlistRepo := repository.NewWatchlistRepository(db.PG)
	feedbackRepo := repository.NewFeedbackRepository(db.PG)
	progressRepo := repository.NewProgressRepository(db.Mongo)
	activityRepo := repository.NewActivityRepository(db.Mongo)
	fileRepo, err := repository.NewFileRepository(db.Mongo)
	if err != nil {
		log.Fatal("Failed to initialize file repository:", err)
	}
	otpStore := repository.NewOTPStore(db.Redis)
	cache := repository.NewCache(db.Redis)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, otpStore, appLogger)
	courseUsecase := usecase.NewCourseUsecase(courseRepo, watchlistRepo, activityRepo, cache, appLogger)
	progressUsecase := usecase.NewProgressUsecase(progressRepo, activityRepo, courseRepo, appLogger)
	leaderboardUsecase := usecase.NewLeaderboardUsecase(cache, appLogger)
	adminUsecase := usecase.NewAdminUsecase(userRepo, courseRepo, feedbackRepo, progressRepo)

	// Initialize handlers and router
	apiHandler := httpDelivery.NewHandler(authUsecase, courseUsecase, progressUsecase, leaderboardUsecase, adminUsecase)
	fileHandler := httpDelivery.NewFileHandler(fileRepo)
	router := httpDelivery.InitRouter(apiHandler, fileHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	appLogger.Info("server starting", "port", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
