package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeTranslation()
	c.normalizeLLM()
	c.normalizeOpenAI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = defaultTranscribeBackend
	}
	t.Language = strings.ToLower(strings.TrimSpace(t.Language))
	if t.Language == "" {
		t.Language = defaultLanguage
	}
	t.WhisperXModel = strings.TrimSpace(t.WhisperXModel)
	if t.WhisperXModel == "" {
		t.WhisperXModel = defaultWhisperXModel
	}
	t.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(t.WhisperXVADMethod))
	if t.WhisperXVADMethod == "" {
		t.WhisperXVADMethod = defaultVADMethod
	}
	t.WhisperXHuggingFace = strings.TrimSpace(t.WhisperXHuggingFace)
	if t.WhisperXHuggingFace == "" {
		t.WhisperXHuggingFace = firstEnv("HF_TOKEN", "HUGGING_FACE_HUB_TOKEN")
	}
	t.OpenAIModel = strings.TrimSpace(t.OpenAIModel)
	if t.OpenAIModel == "" {
		t.OpenAIModel = defaultOpenAIASRModel
	}
}

func (c *Config) normalizeTranslation() {
	t := &c.Translation
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = defaultTranslateBackend
	}
	t.TargetLanguage = strings.TrimSpace(t.TargetLanguage)
	if t.TargetLanguage == "" {
		t.TargetLanguage = defaultTargetLanguage
	}
	if t.Concurrency == 0 {
		t.Concurrency = defaultConcurrency
	}
}

func (c *Config) normalizeLLM() {
	l := &c.LLM
	l.APIKey = strings.TrimSpace(l.APIKey)
	if l.APIKey == "" {
		l.APIKey = firstEnv("OPENROUTER_API_KEY", "LLM_API_KEY")
	}
	l.BaseURL = strings.TrimSpace(l.BaseURL)
	if l.BaseURL == "" {
		l.BaseURL = defaultLLMBaseURL
	}
	l.Model = strings.TrimSpace(l.Model)
	if l.Model == "" {
		l.Model = defaultLLMModel
	}
	l.Referer = strings.TrimSpace(l.Referer)
	l.Title = strings.TrimSpace(l.Title)
	if l.TimeoutSeconds <= 0 {
		l.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if l.RetryAttempts <= 0 {
		l.RetryAttempts = defaultLLMRetryAttempts
	}
}

func (c *Config) normalizeOpenAI() {
	o := &c.OpenAI
	o.APIKey = strings.TrimSpace(o.APIKey)
	if o.APIKey == "" {
		o.APIKey = firstEnv("OPENAI_API_KEY")
	}
	o.BaseURL = strings.TrimSpace(o.BaseURL)
	o.ChatModel = strings.TrimSpace(o.ChatModel)
	if o.ChatModel == "" {
		o.ChatModel = defaultOpenAIChatModel
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
