package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jorgeferrarice/resume-ai-api/internal/config"
	"github.com/jorgeferrarice/resume-ai-api/internal/handlers"
	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
	"github.com/jorgeferrarice/resume-ai-api/internal/middleware"
)

type RouterConfig struct {
	Log           *logger.Logger
	Config        *config.Config
	ChatHandler   *handlers.ChatHandler
	ResumeHandler *handlers.ResumeHandler
	RateLimiter   *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Config != nil && cfg.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:3001"}
	if cfg.Config != nil && len(cfg.Config.AllowedOrigins) > 0 {
		allowedOrigins = cfg.Config.AllowedOrigins
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Handler())
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, handlers.APIResponse{
			Success: true,
			Data: gin.H{
				"message": "Resume AI API",
				"version": "1.0.0",
				"endpoints": gin.H{
					"health": "/health",
					"api":    "/api",
				},
			},
		})
	})

	api := router.Group("/api")
	{
		api.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, handlers.APIResponse{
				Success: true,
				Data:    gin.H{"message": "Resume AI API v1.0.0"},
			})
		})

		// Resume CRUD and AI features
		api.GET("/resume", cfg.ResumeHandler.GetAllResumes)
		api.GET("/resume/:id", cfg.ResumeHandler.GetResumeByID)
		api.POST("/resume", cfg.ResumeHandler.CreateResume)
		api.PUT("/resume/:id", cfg.ResumeHandler.UpdateResume)
		api.DELETE("/resume/:id", cfg.ResumeHandler.DeleteResume)
		api.POST("/resume/analyze", cfg.ResumeHandler.AnalyzeResume)
		api.POST("/resume/enhance", cfg.ResumeHandler.EnhanceResume)
		api.POST("/resume/match-job", cfg.ResumeHandler.MatchJobDescription)
		api.POST("/resume/suggestions", cfg.ResumeHandler.GetCustomSuggestions)

		// Chat with the Elevatr assistant
		api.POST("/chat", cfg.ChatHandler.SendChatMessage)
		api.GET("/chat/:conversationId", cfg.ChatHandler.GetConversationHistory)
		api.DELETE("/chat/:conversationId", cfg.ChatHandler.DeleteConversation)

		// Admin/debug routes for conversations
		api.GET("/conversations", cfg.ChatHandler.GetAllConversations)
		api.POST("/conversations/cleanup", cfg.ChatHandler.CleanupOldConversations)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.APIResponse{
			Success: false,
			Error:   "Route not found",
			Message: "The requested route " + c.Request.URL.Path + " does not exist.",
		})
	})

	return router
}
