package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"meetdeck/pkg/asr"
	"meetdeck/pkg/llm"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
	HuggingFace   HuggingFaceConfig   `yaml:"huggingface"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Anthropic     AnthropicConfig     `yaml:"anthropic"`
	Providers     ProvidersConfig     `yaml:"providers"`
	Transcription TranscriptionConfig `yaml:"transcription"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	FrontendURL    string        `yaml:"frontend_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type HuggingFaceConfig struct {
	APIKey          string `yaml:"api_key"`
	SummaryModel    string `yaml:"summary_model"`
	TranscribeModel string `yaml:"transcribe_model"`
	BaseURL         string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ProvidersConfig struct {
	Order []string `yaml:"order"`
}

type TranscriptionConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	MaxWait     time.Duration `yaml:"max_wait"`
}

// Load reads the optional YAML file at path, applies environment overrides
// and fills defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Server.Port)
	str("FRONTEND_URL", &c.Server.FrontendURL)
	str("LOG_LEVEL", &c.Logging.Level)
	str("HUGGINGFACE_API_KEY", &c.HuggingFace.APIKey)
	str("HF_SUMMARY_MODEL", &c.HuggingFace.SummaryModel)
	str("HF_TRANSCRIBE_MODEL", &c.HuggingFace.TranscribeModel)
	str("HF_BASE_URL", &c.HuggingFace.BaseURL)
	str("GEMINI_API_KEY", &c.Gemini.APIKey)
	str("GEMINI_MODEL", &c.Gemini.Model)
	str("ANTHROPIC_API_KEY", &c.Anthropic.APIKey)
	str("ANTHROPIC_MODEL", &c.Anthropic.Model)

	if v, ok := lookup("PROVIDER_ORDER"); ok && v != "" {
		c.Providers.Order = splitList(v)
	}

	if v, ok := lookup("REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.Server.RequestTimeout = d
	}

	if v, ok := lookup("MAX_UPLOAD_MB"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		c.Server.MaxUploadMB = n
	}

	if v, ok := lookup("ASR_MAX_ATTEMPTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ASR_MAX_ATTEMPTS: %w", err)
		}
		c.Transcription.MaxAttempts = n
	}

	if v, ok := lookup("ASR_MAX_WAIT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ASR_MAX_WAIT: %w", err)
		}
		c.Transcription.MaxWait = d
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		c.Server.Port = "3001"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 120 * time.Second
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 25
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.HuggingFace.SummaryModel == "" {
		c.HuggingFace.SummaryModel = llm.DefaultHuggingFaceModel
	}
	if c.HuggingFace.TranscribeModel == "" {
		c.HuggingFace.TranscribeModel = asr.DefaultModel
	}
	if c.HuggingFace.BaseURL == "" {
		c.HuggingFace.BaseURL = llm.DefaultHuggingFaceBaseURL
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = llm.DefaultGeminiModel
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = llm.DefaultAnthropicModel
	}
	if len(c.Providers.Order) == 0 {
		c.Providers.Order = []string{llm.ProviderHuggingFace, llm.ProviderGemini, llm.ProviderAnthropic}
	}
	if c.Transcription.MaxAttempts == 0 {
		c.Transcription.MaxAttempts = asr.DefaultMaxAttempts
	}
	if c.Transcription.MaxWait == 0 {
		c.Transcription.MaxWait = asr.DefaultMaxWait
	}

	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	if c.Transcription.MaxAttempts < 0 {
		return fmt.Errorf("transcription.max_attempts must be positive")
	}
	if c.Transcription.MaxWait < 0 {
		return fmt.Errorf("transcription.max_wait must be positive")
	}

	seen := make(map[string]bool)
	for _, name := range c.Providers.Order {
		switch name {
		case llm.ProviderHuggingFace, llm.ProviderGemini, llm.ProviderAnthropic:
		default:
			return fmt.Errorf("providers.order: unknown provider %q", name)
		}
		if seen[name] {
			return fmt.Errorf("providers.order: %q listed twice", name)
		}
		seen[name] = true
	}

	return nil
}

// ProviderSettings returns the text-generation providers in preference
// order, keeping only those with a credential.
func (c *Config) ProviderSettings() []llm.ProviderSettings {
	var settings []llm.ProviderSettings
	for _, name := range c.Providers.Order {
		var s llm.ProviderSettings
		switch name {
		case llm.ProviderHuggingFace:
			s = llm.ProviderSettings{Name: name, APIKey: c.HuggingFace.APIKey, Model: c.HuggingFace.SummaryModel, BaseURL: c.HuggingFace.BaseURL}
		case llm.ProviderGemini:
			s = llm.ProviderSettings{Name: name, APIKey: c.Gemini.APIKey, Model: c.Gemini.Model}
		case llm.ProviderAnthropic:
			s = llm.ProviderSettings{Name: name, APIKey: c.Anthropic.APIKey, Model: c.Anthropic.Model}
		}
		if s.APIKey != "" {
			settings = append(settings, s)
		}
	}
	return settings
}

func (c *Config) TranscriptionOptions() asr.Options {
	return asr.Options{
		BaseURL:     c.HuggingFace.BaseURL,
		MaxAttempts: c.Transcription.MaxAttempts,
		MaxWait:     c.Transcription.MaxWait,
	}
}

func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

func (c LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(strings.ToLower(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
