package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meetdeck/internal/config"
	"meetdeck/pkg/llm"
	"meetdeck/pkg/render"

	"github.com/go-playground/assert/v2"
	"github.com/spf13/cobra"
)

const (
	meetingTranscript = "Alice opened the standup. Bob finished the billing migration and Carol will review it tomorrow."
	meetingDeck       = `{"title":"Standup","summary":"Billing migration is done.","slides":[{"title":"Billing","points":["Migration finished","Review tomorrow"]}]}`
)

// hfServer answers both the speech endpoint and the chat completions
// endpoint of the Hugging Face router.
type hfServer struct {
	*httptest.Server
	asrContentType string
	asrAuth        string
	prompts        []string
}

func newHFServer(t *testing.T) *hfServer {
	t.Helper()
	s := &hfServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/hf-inference/models/", func(w http.ResponseWriter, r *http.Request) {
		s.asrContentType = r.Header.Get("Content-Type")
		s.asrAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"text": " " + meetingTranscript + " "})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.prompts = append(s.prompts, string(body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1760000000,
			"model":   llm.DefaultHuggingFaceModel,
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": "```json\n" + meetingDeck + "\n```",
					},
				},
			},
		})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// useTestConfig points the package config at srv and resets command flags
// when the test ends.
func useTestConfig(t *testing.T, srv *hfServer) {
	t.Helper()

	c := &config.Config{
		HuggingFace: config.HuggingFaceConfig{APIKey: "hf-test", BaseURL: srv.URL},
		Providers:   config.ProvidersConfig{Order: []string{llm.ProviderHuggingFace}},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}

	prevCfg := cfg
	cfg = c
	t.Cleanup(func() {
		cfg = prevCfg
		summarizeOutput, summarizeHTML, summarizeDOCX = "", "", ""
		summarizeTitle, summarizeProvider = render.DefaultTitle, ""
		transcribeSummarize = false
	})
}

func newTestCommand(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func TestRunSummarize_WritesAllOutputs(t *testing.T) {
	srv := newHFServer(t)
	useTestConfig(t, srv)

	dir := t.TempDir()
	input := filepath.Join(dir, "standup.txt")
	os.WriteFile(input, []byte(meetingTranscript), 0o644)

	summarizeOutput = filepath.Join(dir, "deck.json")
	summarizeHTML = filepath.Join(dir, "deck.html")
	summarizeDOCX = filepath.Join(dir, "deck.docx")
	summarizeTitle = "Daily Standup"

	cmd, stdout, stderr := newTestCommand("")
	err := runSummarize(cmd, []string{input})
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, stdout.Len())
	assert.Equal(t, 1, len(srv.prompts))
	assert.Equal(t, true, strings.Contains(srv.prompts[0], "Bob finished the billing migration"))

	data, err := os.ReadFile(summarizeOutput)
	assert.Equal(t, nil, err)

	var deck deckFile
	json.Unmarshal(data, &deck)
	assert.Equal(t, "Standup", deck.Title)
	assert.Equal(t, "Billing migration is done.", deck.Summary)
	assert.Equal(t, "Billing", deck.Slides[0].Title)
	assert.Equal(t, llm.ProviderHuggingFace, deck.Provider)
	assert.Equal(t, llm.DefaultHuggingFaceModel, deck.Model)

	html, err := os.ReadFile(summarizeHTML)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(string(html), "<title>Daily Standup</title>"))
	assert.Equal(t, true, strings.Contains(string(html), "Migration finished"))

	docx, err := os.ReadFile(summarizeDOCX)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, bytes.HasPrefix(docx, []byte("PK")))

	assert.Equal(t, true, strings.Contains(stderr.String(), "HTML written to"))
	assert.Equal(t, true, strings.Contains(stderr.String(), "DOCX written to"))
}

func TestRunSummarize_Stdin(t *testing.T) {
	srv := newHFServer(t)
	useTestConfig(t, srv)

	cmd, stdout, _ := newTestCommand(meetingTranscript)
	err := runSummarize(cmd, nil)
	assert.Equal(t, nil, err)

	var deck deckFile
	json.Unmarshal(stdout.Bytes(), &deck)
	assert.Equal(t, "Billing migration is done.", deck.Summary)
}

func TestRunSummarize_UnknownProvider(t *testing.T) {
	srv := newHFServer(t)
	useTestConfig(t, srv)
	summarizeProvider = llm.ProviderGemini

	cmd, _, _ := newTestCommand(meetingTranscript)
	err := runSummarize(cmd, nil)
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(srv.prompts))
}

func TestRunTranscribe_PrintsTranscript(t *testing.T) {
	srv := newHFServer(t)
	useTestConfig(t, srv)

	audio := filepath.Join(t.TempDir(), "standup.mp3")
	os.WriteFile(audio, []byte("ID3fake"), 0o644)

	cmd, stdout, _ := newTestCommand("")
	err := runTranscribe(cmd, []string{audio})
	assert.Equal(t, nil, err)
	assert.Equal(t, meetingTranscript+"\n", stdout.String())
	assert.Equal(t, "audio/mpeg", srv.asrContentType)
	assert.Equal(t, "Bearer hf-test", srv.asrAuth)
	assert.Equal(t, 0, len(srv.prompts))
}

func TestRunTranscribe_Summarize(t *testing.T) {
	srv := newHFServer(t)
	useTestConfig(t, srv)

	audio := filepath.Join(t.TempDir(), "standup.webm")
	os.WriteFile(audio, []byte("webm"), 0o644)
	transcribeSummarize = true

	cmd, stdout, _ := newTestCommand("")
	err := runTranscribe(cmd, []string{audio})
	assert.Equal(t, nil, err)
	assert.Equal(t, "audio/webm", srv.asrContentType)
	assert.Equal(t, 1, len(srv.prompts))
	assert.Equal(t, true, strings.Contains(srv.prompts[0], "Carol will review it tomorrow"))

	var deck deckFile
	json.Unmarshal(stdout.Bytes(), &deck)
	assert.Equal(t, "Billing migration is done.", deck.Summary)
	assert.Equal(t, llm.ProviderHuggingFace, deck.Provider)
}
