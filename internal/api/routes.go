package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hydrahunt/internal/api/middleware"
	"hydrahunt/internal/auth"
	"hydrahunt/internal/config"
	"hydrahunt/internal/storage"
	"hydrahunt/internal/store"
)

// RegisterRoutes attaches every business route under /v1. The session
// middleware runs for the whole group so both guests and account
// holders get a resolved session before any handler executes.
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	facade *store.Facade,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	storageClient *storage.Client,
	logger *slog.Logger,
) {
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		facade,
		logger,
		cfg.Limits.LoginRateLimitPerHour,
		cfg.Limits.LoginLockThreshold,
		cfg.Limits.LoginLockTTL,
		cfg.API.CookieDomain,
	)
	resumeHandler := NewResumeHandler(facade, db, asynqClient, storageClient, cfg.Limits.MaxResumes)
	importHandler := NewImportHandler(facade, logger, cfg.Clamd.Addr)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedOrigins)

	sessionMiddleware := middleware.SessionMiddleware(authService, cfg.API.CookieDomain)

	v1 := router.Group("/v1")
	v1.Use(sessionMiddleware)
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
		}

		resumeGroup := v1.Group("/resumes")
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/folders", resumeHandler.ListFolders)
			resumeGroup.GET("/templates", resumeHandler.ListTemplates)
			resumeGroup.POST("/import", importHandler.ImportResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.SaveResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.POST("/:id/duplicate", resumeHandler.DuplicateResume)

			exportGroup := resumeGroup.Group("")
			exportGroup.Use(middleware.RequireAccount())
			{
				exportGroup.POST("/:id/export", resumeHandler.ExportResume)
				exportGroup.GET("/:id/export-link", resumeHandler.GetExportLink)
			}
		}
	}
}
