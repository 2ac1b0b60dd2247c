package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"meetdeck/internal/config"
	"meetdeck/internal/handler"
	"meetdeck/pkg/asr"
	"meetdeck/pkg/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()})))

	providers, err := llm.NewProviders(context.Background(), cfg.ProviderSettings())
	if err != nil {
		log.Fatalf("error initializing AI providers: %v", err)
	}

	dispatcher := llm.NewDispatcher(providers...).WithAttemptTimeout(cfg.Server.RequestTimeout)
	if len(providers) == 0 {
		slog.Warn("no AI provider API key configured, /api/summarize will fail until HUGGINGFACE_API_KEY or GEMINI_API_KEY is set")
	} else {
		slog.Info("AI providers configured", "order", dispatcher.Providers())
	}

	transcriber := asr.NewHuggingFaceClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.TranscribeModel, cfg.TranscriptionOptions())
	transcriptionEnabled := cfg.HuggingFace.APIKey != ""
	if !transcriptionEnabled {
		slog.Warn("HUGGINGFACE_API_KEY not set, /api/transcribe is disabled")
	}

	deckHandler := handler.NewDeckHandler(dispatcher)
	transcriptHandler := handler.NewTranscriptHandler(transcriber, cfg.MaxUploadBytes(), cfg.Server.RequestTimeout)
	healthHandler := handler.NewHealthHandler(dispatcher, transcriptionEnabled)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes()
	r.Use(handler.RequestID())

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", handler.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", handler.RequestIDHeader},
	}))

	r.GET("/api/health", healthHandler.GetHealth)
	r.POST("/api/summarize", deckHandler.Summarize)
	r.POST("/api/transcribe", transcriptHandler.Transcribe)
	r.POST("/api/export", deckHandler.Export)

	slog.Info("starting server", "port", cfg.Server.Port)

	err = r.Run(":" + cfg.Server.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
