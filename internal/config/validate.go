package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are checked when
// a backend is constructed, so commands that never reach a backend run
// without them.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case "whisperx", "openai":
	default:
		return fmt.Errorf("transcription.backend must be one of whisperx, openai (got %q)", c.Transcription.Backend)
	}
	switch c.Transcription.WhisperXVADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.whisperx_vad_method must be silero or pyannote (got %q)", c.Transcription.WhisperXVADMethod)
	}
	if strings.ContainsAny(c.Transcription.Language, " _/") {
		return fmt.Errorf("transcription.language must be a language code (got %q)", c.Transcription.Language)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Backend {
	case "llm", "openai":
	default:
		return fmt.Errorf("translation.backend must be one of llm, openai (got %q)", c.Translation.Backend)
	}
	if c.Translation.Concurrency < 1 {
		return errors.New("translation.concurrency must be at least 1")
	}
	if c.Translation.Temperature < 0 || c.Translation.Temperature > 2 {
		return errors.New("translation.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}
