package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"meetdeck/pkg/asr"

	"github.com/gin-gonic/gin"
)

// multipartOverhead allows for boundaries and part headers around the file.
const multipartOverhead = 64 << 10

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

type TranscriptHandler struct {
	transcriber    Transcriber
	maxUploadBytes int64
	timeout        time.Duration
}

func NewTranscriptHandler(transcriber Transcriber, maxUploadBytes int64, timeout time.Duration) *TranscriptHandler {
	return &TranscriptHandler{
		transcriber:    transcriber,
		maxUploadBytes: maxUploadBytes,
		timeout:        timeout,
	}
}

func (h *TranscriptHandler) Transcribe(c *gin.Context) {
	// Spilled multipart parts are removed on every path.
	defer func() {
		if form := c.Request.MultipartForm; form != nil {
			form.RemoveAll()
		}
	}()

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Audio file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No audio file uploaded"})
		return
	}

	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Audio file is too large"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !isAudio(contentType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Only audio files are allowed"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("error opening upload", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	audio, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		slog.Error("error reading upload", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	transcript, err := h.transcriber.Transcribe(ctx, audio, contentType)
	if err != nil {
		slog.Error("error transcribing audio", "error", err, "size", len(audio), "request_id", requestID(c))
		c.JSON(transcriptionError(err))
		return
	}

	slog.Info("audio transcribed", "size", len(audio), "chars", len(transcript), "request_id", requestID(c))
	c.JSON(http.StatusOK, TranscribeResponse{Transcript: transcript})
}

func isAudio(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "audio/")
}

func transcriptionError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, asr.ErrNoCredential):
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Hugging Face API key not configured",
			Hint:  "Set HUGGINGFACE_API_KEY in your environment or .env file to enable transcription",
		}
	case errors.Is(err, asr.ErrEmptyAudio):
		return http.StatusBadRequest, ErrorResponse{Error: "Uploaded audio file is empty"}
	case errors.Is(err, asr.ErrModelLoading):
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Transcription model is still loading",
			Hint:  "Wait a minute and try again",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to transcribe audio",
			Hint:  "Check your Hugging Face API key and that the file is a supported audio format",
		}
	}
}
