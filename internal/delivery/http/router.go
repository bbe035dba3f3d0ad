package http

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRouter(handler *Handler, fileHandler *FileHandler) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	// Public Routes
	api := r.Group("/api/v1")
	{
		api.POST("/register", handler.Register)
		api.POST("/login", handler.Login)
		api.POST("/forgot-password", handler.ForgotPassword)
		api.POST("/reset-password", handler.ResetPassword)

		api.GET("/courses", handler.GetAllCourses)
		api.GET("/courses/:id", handler.GetCourseByID)
		api.GET("/leaderboard", handler.GetLeaderboard)
		api.GET("/files/:id", fileHandler.StreamFile)
	}

	// Protected Routes
	protected := api.Group("/")
	protected.Use(AuthMiddleware())
	{
		protected.GET("/profile", handler.GetProfile)
		protected.PUT("/profile", handler.UpdateProfile)

		protected.GET("/watchlist", handler.GetWatchlist)
		protected.POST("/watchlist/:courseId", handler.AddToWatchlist)
		protected.DELETE("/watchlist/:courseId", handler.RemoveFromWatchlist)

		protected.GET("/progress", handler.ListProgress)
		protected.GET("/progress/:courseId", handler.GetProgress)
		protected.PUT("/progress/:courseId", handler.UpsertProgress)
		protected.PUT("/progress/:courseId/module", handler.UpdateModuleProgress)
		protected.GET("/activity", handler.GetUserActivity)

		protected.POST("/feedback", handler.SubmitFeedback)
		protected.POST("/files", fileHandler.UploadFile)
	}

	// Admin Only
	admin := api.Group("/admin")
	admin.Use(AuthMiddleware(), AdminMiddleware())
	{
		admin.GET("/stats", handler.GetAdminStats)
		admin.GET("/users", handler.GetAllUsers)
		admin.DELETE("/users/:id", handler.DeleteUser)

		admin.POST("/courses", handler.CreateCourse)
		admin.PUT("/courses/:id", handler.UpdateCourse)
		admin.DELETE("/courses/:id", handler.DeleteCourse)

		admin.GET("/feedback", handler.GetAllFeedback)
		admin.DELETE("/feedback/:id", handler.DeleteFeedback)
	}

	return r
}
