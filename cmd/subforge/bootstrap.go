package main

import (
	"log/slog"
	"strings"

	"subforge/internal/config"
	"subforge/internal/media/audio"
	"subforge/internal/pipeline"
	"subforge/internal/services"
	"subforge/internal/services/llm"
	"subforge/internal/services/openai"
	"subforge/internal/services/whisperx"
	"subforge/internal/store"
	"subforge/internal/translation"
)

// buildTranscriber constructs the configured speech-to-text backend.
func buildTranscriber(cfg *config.Config, logger *slog.Logger) (pipeline.Transcriber, error) {
	switch cfg.Transcription.Backend {
	case "whisperx":
		if cfg.Transcription.WhisperXVADMethod == whisperx.VADMethodPyannote && strings.TrimSpace(cfg.Transcription.WhisperXHuggingFace) == "" {
			return nil, services.Wrap(services.ErrConfiguration, "", "whisperx",
				"pyannote VAD requires transcription.whisperx_hf_token (or HF_TOKEN)", nil)
		}
		return whisperx.NewService(whisperx.Config{
			Model:       cfg.Transcription.WhisperXModel,
			CUDAEnabled: cfg.Transcription.WhisperXCUDAEnabled,
			VADMethod:   cfg.Transcription.WhisperXVADMethod,
			HFToken:     cfg.Transcription.WhisperXHuggingFace,
			Language:    cfg.Transcription.Language,
			WorkDir:     cfg.Paths.WorkDir,
		}, cfg.UVXBinary(), logger), nil
	case "openai":
		client, err := openai.NewClient(openAIConfig(cfg), logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "", "transcription", "unknown backend "+cfg.Transcription.Backend, nil)
	}
}

// buildTranslator constructs the configured chat translator. When the cache
// is enabled and st is non-nil, lookups go through the history database.
func buildTranslator(cfg *config.Config, st *store.Store, logger *slog.Logger) (translation.Translator, error) {
	var chat *translation.ChatTranslator
	switch cfg.Translation.Backend {
	case "llm":
		if strings.TrimSpace(cfg.LLM.APIKey) == "" {
			return nil, services.Wrap(services.ErrConfiguration, "", "llm",
				"api key required (llm.api_key, OPENROUTER_API_KEY or LLM_API_KEY)", nil)
		}
		client := llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			Referer:        cfg.LLM.Referer,
			Title:          cfg.LLM.Title,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(cfg.LLM.RetryAttempts))
		chat = translation.NewChatTranslator("llm", client, cfg.Translation.Temperature)
	case "openai":
		client, err := openai.NewClient(openAIConfig(cfg), logger)
		if err != nil {
			return nil, err
		}
		chat = translation.NewChatTranslator("openai", client, cfg.Translation.Temperature)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "", "translation", "unknown backend "+cfg.Translation.Backend, nil)
	}

	if !cfg.Translation.CacheEnabled || st == nil {
		return chat, nil
	}
	return translation.NewCachedTranslator(chat, st, chat.Backend(), chat.Model(), logger), nil
}

// buildPass wraps the configured translator in a translation pass.
func buildPass(cfg *config.Config, st *store.Store, logger *slog.Logger) (*translation.Pass, error) {
	translator, err := buildTranslator(cfg, st, logger)
	if err != nil {
		return nil, err
	}
	return translation.NewPass(translator, translation.Options{Concurrency: cfg.Translation.Concurrency}, logger), nil
}

// buildOrchestrator wires every collaborator of a pipeline run.
func buildOrchestrator(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	transcriber, err := buildTranscriber(cfg, logger)
	if err != nil {
		return nil, err
	}
	pass, err := buildPass(cfg, st, logger)
	if err != nil {
		return nil, err
	}
	extractor := audio.NewExtractor(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.Transcription.Language, logger)

	if st != nil {
		opts = append([]pipeline.Option{pipeline.WithRecorder(st)}, opts...)
	}
	return pipeline.New(extractor, transcriber, pass, pipeline.Options{
		OutputDir:            cfg.Paths.OutputDir,
		SourceLanguage:       cfg.Transcription.Language,
		TargetLanguage:       cfg.Translation.TargetLanguage,
		KeepAudio:            cfg.Pipeline.KeepAudio,
		LockDir:              cfg.LockDir(),
		TranscriptionBackend: cfg.Transcription.Backend,
		TranslationBackend:   cfg.Translation.Backend,
	}, logger, opts...), nil
}

func openAIConfig(cfg *config.Config) openai.Config {
	return openai.Config{
		APIKey:             cfg.OpenAI.APIKey,
		BaseURL:            cfg.OpenAI.BaseURL,
		TranscriptionModel: cfg.Transcription.OpenAIModel,
		ChatModel:          cfg.OpenAI.ChatModel,
		Language:           cfg.Transcription.Language,
		TimeoutSeconds:     cfg.OpenAI.TimeoutSeconds,
	}
}
