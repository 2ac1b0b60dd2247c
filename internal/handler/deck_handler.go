package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"meetdeck/pkg/llm"
	"meetdeck/pkg/render"

	"github.com/gin-gonic/gin"
)

type DeckGenerator interface {
	GenerateDeck(ctx context.Context, transcript string) (*llm.Result, error)
	Providers() []string
}

type DeckHandler struct {
	generator DeckGenerator
}

// NewDeckHandler serves deck generation. Provider attempts are bounded by the
// generator, not here, so a slow primary does not starve the fallback.
func NewDeckHandler(generator DeckGenerator) *DeckHandler {
	return &DeckHandler{generator: generator}
}

func (h *DeckHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid summarize body", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Transcript is required"})
		return
	}

	if err := llm.ValidateTranscript(req.Transcript); err != nil {
		c.JSON(validationError(err))
		return
	}

	result, err := h.generator.GenerateDeck(c.Request.Context(), req.Transcript)
	if err != nil {
		slog.Error("error generating deck", "error", err, "request_id", requestID(c))
		c.JSON(generationError(err))
		return
	}

	c.JSON(http.StatusOK, result.Document())
}

// Export renders a (possibly edited) deck as a downloadable HTML file.
func (h *DeckHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid presentation data"})
		return
	}

	if req.Summary == "" || req.Slides == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Presentation needs a summary and a slides array"})
		return
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, req.toDeck(), req.Title); err != nil {
		slog.Error("error rendering deck", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render presentation"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="presentation.html"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func validationError(err error) (int, ErrorResponse) {
	if errors.Is(err, llm.ErrTranscriptTooShort) {
		return http.StatusBadRequest, ErrorResponse{Error: "Transcript is too short. Please provide at least 50 characters."}
	}
	return http.StatusBadRequest, ErrorResponse{Error: "Transcript is required"}
}

func generationError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, llm.ErrTranscriptEmpty), errors.Is(err, llm.ErrTranscriptTooShort):
		return validationError(err)
	case errors.Is(err, llm.ErrNoProvider):
		return http.StatusInternalServerError, ErrorResponse{
			Error: "No AI provider configured",
			Hint:  "Set HUGGINGFACE_API_KEY or GEMINI_API_KEY in your environment or .env file",
		}
	case llm.IsFormatError(err):
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to parse AI response. Please try again.",
			Hint:  "The AI model did not return valid JSON",
		}
	case llm.IsTimeout(err):
		return http.StatusInternalServerError, ErrorResponse{
			Error: "AI provider timed out",
			Hint:  "Try again with a shorter transcript or check the provider status",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to generate summary",
			Hint:  "Check your API keys and network connection",
		}
	}
}
