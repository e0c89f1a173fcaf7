package config

const (
	defaultConfigPath        = "~/.config/subforge/config.toml"
	projectConfigName        = "subforge.toml"
	defaultStateDir          = "~/.local/share/subforge"
	defaultLogDir            = "~/.local/share/subforge/logs"
	defaultWorkDir           = "~/.cache/subforge/work"
	defaultTranscribeBackend = "whisperx"
	defaultLanguage          = "en"
	defaultWhisperXModel     = "large-v3"
	defaultVADMethod         = "silero"
	defaultOpenAIASRModel    = "whisper-1"
	defaultTranslateBackend  = "llm"
	defaultTargetLanguage    = "English"
	defaultConcurrency       = 1
	defaultTemperature       = 0.3
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "openai/gpt-4o-mini"
	defaultLLMReferer        = "https://github.com/subforge/subforge"
	defaultLLMTitle          = "subforge"
	defaultLLMTimeoutSeconds = 60
	defaultLLMRetryAttempts  = 5
	defaultOpenAIChatModel   = "gpt-4o-mini"
	defaultOpenAITimeout     = 120
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			WorkDir:  defaultWorkDir,
		},
		Transcription: Transcription{
			Backend:           defaultTranscribeBackend,
			Language:          defaultLanguage,
			WhisperXModel:     defaultWhisperXModel,
			WhisperXVADMethod: defaultVADMethod,
			OpenAIModel:       defaultOpenAIASRModel,
		},
		Translation: Translation{
			Backend:        defaultTranslateBackend,
			TargetLanguage: defaultTargetLanguage,
			Concurrency:    defaultConcurrency,
			Temperature:    defaultTemperature,
			CacheEnabled:   true,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		OpenAI: OpenAI{
			ChatModel:      defaultOpenAIChatModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
