package main

import (
	"errors"
	"testing"

	"subforge/internal/services"
	"subforge/internal/services/openai"
	"subforge/internal/services/whisperx"
	"subforge/internal/testsupport"
	"subforge/internal/translation"
)

func TestBuildTranscriber(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	tr, err := buildTranscriber(cfg, nil)
	if err != nil {
		t.Fatalf("whisperx: %v", err)
	}
	if _, ok := tr.(*whisperx.Service); !ok {
		t.Fatalf("expected whisperx service, got %T", tr)
	}

	cfg.Transcription.Backend = "openai"
	tr, err = buildTranscriber(cfg, nil)
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, ok := tr.(*openai.Client); !ok {
		t.Fatalf("expected openai client, got %T", tr)
	}
}

func TestBuildTranscriberRequiresCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcription.WhisperXVADMethod = whisperx.VADMethodPyannote
	cfg.Transcription.WhisperXHuggingFace = ""
	if _, err := buildTranscriber(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for pyannote without token, got %v", err)
	}

	cfg = testsupport.NewConfig(t)
	cfg.Transcription.Backend = "openai"
	cfg.OpenAI.APIKey = ""
	cfg.OpenAI.BaseURL = ""
	if _, err := buildTranscriber(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without openai key, got %v", err)
	}
}

func TestBuildTranslator(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	tr, err := buildTranslator(cfg, st, nil)
	if err != nil {
		t.Fatalf("llm: %v", err)
	}
	if _, ok := tr.(*translation.CachedTranslator); !ok {
		t.Fatalf("expected cached translator, got %T", tr)
	}

	cfg.Translation.CacheEnabled = false
	cfg.Translation.Backend = "openai"
	tr, err = buildTranslator(cfg, st, nil)
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	chat, ok := tr.(*translation.ChatTranslator)
	if !ok {
		t.Fatalf("expected chat translator, got %T", tr)
	}
	if chat.Backend() != "openai" || chat.Model() != cfg.OpenAI.ChatModel {
		t.Fatalf("unexpected backend %q model %q", chat.Backend(), chat.Model())
	}
}

func TestBuildTranslatorRequiresKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LLM.APIKey = ""
	if _, err := buildTranslator(cfg, nil, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
