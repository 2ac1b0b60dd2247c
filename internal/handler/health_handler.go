package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	generator            DeckGenerator
	transcriptionEnabled bool
}

func NewHealthHandler(generator DeckGenerator, transcriptionEnabled bool) *HealthHandler {
	return &HealthHandler{generator: generator, transcriptionEnabled: transcriptionEnabled}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	providers := h.generator.Providers()
	if providers == nil {
		providers = []string{}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Message:       "Meeting summarizer API is running",
		Providers:     providers,
		Transcription: h.transcriptionEnabled,
	})
}
