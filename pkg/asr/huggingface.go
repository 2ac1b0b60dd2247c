package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL     = "https://router.huggingface.co"
	DefaultModel       = "openai/whisper-large-v3"
	DefaultMaxAttempts = 5
	DefaultMaxWait     = 60 * time.Second

	defaultRetryAfter = 10 * time.Second
	maxErrorBody      = 4 << 10
)

type Options struct {
	BaseURL     string
	MaxAttempts int
	MaxWait     time.Duration
	HTTPClient  *http.Client
}

// HuggingFaceClient forwards raw audio bytes to the Hugging Face inference
// endpoint of an ASR model.
type HuggingFaceClient struct {
	apiKey      string
	model       string
	baseURL     string
	maxAttempts int
	maxWait     time.Duration
	httpClient  *http.Client
	wait        func(ctx context.Context, d time.Duration) error
}

func NewHuggingFaceClient(apiKey, model string, opts Options) *HuggingFaceClient {
	c := &HuggingFaceClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     opts.BaseURL,
		maxAttempts: opts.MaxAttempts,
		maxWait:     opts.MaxWait,
		httpClient:  opts.HTTPClient,
		wait:        sleepContext,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.maxWait <= 0 {
		c.maxWait = DefaultMaxWait
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return c
}

func (c *HuggingFaceClient) Name() string {
	return "huggingface"
}

// Transcribe posts the audio and returns the recognised text. A 503 means the
// model is cold; the request is repeated after Retry-After, bounded by
// maxAttempts requests and maxWait of cumulative waiting.
func (c *HuggingFaceClient) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredential
	}
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	url := fmt.Sprintf("%s/hf-inference/models/%s", strings.TrimRight(c.baseURL, "/"), c.model)

	var waited time.Duration
	for attempt := 1; ; attempt++ {
		resp, err := c.post(ctx, url, audio, contentType)
		if err != nil {
			return "", fmt.Errorf("huggingface transcribe: %w", err)
		}

		if resp.StatusCode != http.StatusServiceUnavailable {
			return decodeTranscript(resp)
		}

		delay := retryAfter(resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()

		remaining := c.maxWait - waited
		if attempt >= c.maxAttempts || remaining <= 0 {
			return "", fmt.Errorf("%w: gave up after %d attempts and %s", ErrModelLoading, attempt, waited)
		}
		if delay > remaining {
			delay = remaining
		}

		slog.Warn("transcription model loading, retrying",
			"model", c.model,
			"attempt", attempt,
			"retry_after", delay,
		)

		if err := c.wait(ctx, delay); err != nil {
			return "", err
		}
		waited += delay
	}
}

func (c *HuggingFaceClient) post(ctx context.Context, url string, audio []byte, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

type transcriptResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func decodeTranscript(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		var parsed transcriptResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var parsed transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("huggingface transcribe decode: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("huggingface transcribe: %s", parsed.Error)
	}

	return strings.TrimSpace(parsed.Text), nil
}

// retryAfter reads a delay in seconds, falling back to 10s.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
