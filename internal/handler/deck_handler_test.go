package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meetdeck/pkg/llm"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

// DeckResponse is the documented shape of a successful /api/summarize body.
type DeckResponse struct {
	Summary  string          `json:"summary"`
	Slides   []SlideResponse `json:"slides"`
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
}

type fakeGenerator struct {
	result    *llm.Result
	err       error
	providers []string
	calls     int
}

func (f *fakeGenerator) GenerateDeck(ctx context.Context, transcript string) (*llm.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeGenerator) Providers() []string {
	return f.providers
}

// countingProvider stands in for a remote model so tests can assert that no
// outbound call happened.
type countingProvider struct {
	calls int
	raw   string
}

func (p *countingProvider) Name() string  { return "huggingface" }
func (p *countingProvider) Model() string { return "test-model" }

func (p *countingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	return p.raw, nil
}

func newTestDeckRouter(gen DeckGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	h := NewDeckHandler(gen)
	r.POST("/api/summarize", h.Summarize)
	r.POST("/api/export", h.Export)
	r.GET("/api/health", NewHealthHandler(gen, true).GetHealth)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSummarize_ReturnsDeck(t *testing.T) {
	gen := &fakeGenerator{
		result: &llm.Result{
			Deck: &llm.SlideDeck{
				Summary: "Planning meeting.",
				Slides:  []llm.Slide{{Title: "Agenda", Points: []string{"Budget", "Hiring"}}},
			},
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
		},
	}
	r := newTestDeckRouter(gen)

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DeckResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Planning meeting.", res.Summary)
	assert.Equal(t, 1, len(res.Slides))
	assert.Equal(t, "Agenda", res.Slides[0].Title)
	assert.Equal(t, []string{"Budget", "Hiring"}, res.Slides[0].Points)
	assert.Equal(t, "gemini", res.Provider)
	assert.NotEqual(t, "", w.Header().Get(RequestIDHeader))
}

func TestSummarize_TooShort(t *testing.T) {
	provider := &countingProvider{}
	r := newTestDeckRouter(llm.NewDispatcher(provider))

	w := postJSON(r, "/api/summarize", `{"transcript":"short"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, strings.HasPrefix(res.Error, "Transcript is too short"))
	assert.Equal(t, 0, provider.calls)
}

func TestSummarize_Missing(t *testing.T) {
	gen := &fakeGenerator{}
	r := newTestDeckRouter(gen)

	for _, body := range []string{`{}`, `{"transcript":""}`, `{"transcript":"   "}`, ``} {
		w := postJSON(r, "/api/summarize", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Equal(t, 0, gen.calls)
}

func TestSummarize_SixtyCharsWithStubProvider(t *testing.T) {
	provider := &countingProvider{raw: "```json\n{\"summary\":\"Stub summary\",\"slides\":[{\"title\":\"One\",\"points\":[\"a\"]}]}\n```"}
	r := newTestDeckRouter(llm.NewDispatcher(provider))

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, provider.calls)

	var res DeckResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Stub summary", res.Summary)
	assert.Equal(t, "huggingface", res.Provider)
}

func TestSummarize_KeepsProviderFields(t *testing.T) {
	provider := &countingProvider{raw: `{"title":"Kickoff","summary":"Stub summary","slides":[{"title":"One","points":["a"],"notes":"intro"}]}`}
	r := newTestDeckRouter(llm.NewDispatcher(provider))

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Kickoff", res["title"])
	assert.Equal(t, "huggingface", res["provider"])
	assert.Equal(t, "intro", res["slides"].([]any)[0].(map[string]any)["notes"])
}

func TestSummarize_ProviderTimeout(t *testing.T) {
	gen := &fakeGenerator{err: &llm.DispatchError{Attempts: []*llm.AttemptError{
		{Provider: "huggingface", Err: errors.New("status 503")},
		{Provider: "gemini", Err: context.DeadlineExceeded},
	}}}
	r := newTestDeckRouter(gen)

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "AI provider timed out", res.Error)
}

func TestSummarize_NoProviderConfigured(t *testing.T) {
	r := newTestDeckRouter(llm.NewDispatcher())

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "No AI provider configured", res.Error)
	assert.NotEqual(t, "", res.Hint)
}

func TestSummarize_ParseFailure(t *testing.T) {
	provider := &countingProvider{raw: "Sorry, I can't produce slides for this."}
	r := newTestDeckRouter(llm.NewDispatcher(provider))

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Failed to parse AI response. Please try again.", res.Error)
}

func TestSummarize_ProviderError(t *testing.T) {
	gen := &fakeGenerator{err: &llm.DispatchError{Attempts: []*llm.AttemptError{
		{Provider: "huggingface", Err: errors.New("status 503")},
	}}}
	r := newTestDeckRouter(gen)

	w := postJSON(r, "/api/summarize", `{"transcript":"`+strings.Repeat("A", 60)+`"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Failed to generate summary", res.Error)
	assert.Equal(t, "Check your API keys and network connection", res.Hint)
}

func TestExport(t *testing.T) {
	r := newTestDeckRouter(&fakeGenerator{})

	w := postJSON(r, "/api/export", `{"title":"Retro","summary":"Went well.","slides":[{"title":"Wins","points":["Shipped **v2**"]}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, true, strings.Contains(w.Header().Get("Content-Disposition"), "presentation.html"))
	assert.Equal(t, true, strings.Contains(w.Body.String(), "<title>Retro</title>"))
	assert.Equal(t, true, strings.Contains(w.Body.String(), "<strong>v2</strong>"))
}

func TestExport_InvalidDeck(t *testing.T) {
	r := newTestDeckRouter(&fakeGenerator{})

	w := postJSON(r, "/api/export", `{"summary":"no slides"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/export", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHealth(t *testing.T) {
	r := newTestDeckRouter(&fakeGenerator{providers: []string{"huggingface", "gemini"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	var res HealthResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, []string{"huggingface", "gemini"}, res.Providers)
	assert.Equal(t, true, res.Transcription)
}
