package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jorgeferrarice/resume-ai-api/internal/config"
	"github.com/jorgeferrarice/resume-ai-api/internal/handlers"
	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
	"github.com/jorgeferrarice/resume-ai-api/internal/middleware"
	"github.com/jorgeferrarice/resume-ai-api/internal/server"
	"github.com/jorgeferrarice/resume-ai-api/internal/services"
	"github.com/jorgeferrarice/resume-ai-api/internal/store"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg := config.Load(log)

	// Stores
	conversationStore := store.NewConversationStore()
	resumeStore := store.NewResumeStore()

	// Services
	log.Info("Setting up services from main...")
	openaiClient := services.NewOpenAIClient(log)
	contextLoader := services.NewFileContextLoader(log, cfg.ContextDir)
	conversationService := services.NewConversationService(log, conversationStore)
	chatService := services.NewChatService(log, conversationService, openaiClient, contextLoader, nil)
	resumeService := services.NewResumeService(log, resumeStore, openaiClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	chatHandler := handlers.NewChatHandler(chatService)
	resumeHandler := handlers.NewResumeHandler(resumeService)

	// Middleware
	rateLimiter := middleware.NewRateLimiter(log, cfg.RateLimit.Window, cfg.RateLimit.Max)

	// Background conversation reaper
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			deleted := chatService.Cleanup(cfg.ConversationMaxAgeHrs)
			if deleted > 0 {
				log.Info("Conversation reaper ran", "deleted", deleted)
			}
		}
	}()

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:           log,
		Config:        cfg,
		ChatHandler:   chatHandler,
		ResumeHandler: resumeHandler,
		RateLimiter:   rateLimiter,
	})

	log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
