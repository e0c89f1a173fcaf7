// Package whisperx runs WhisperX through uvx to transcribe extracted audio.
//
// Service.Transcribe invokes WhisperX with JSON output into a scratch
// directory, then maps the sentence-level segments onto subtitles.Segment.
// LoadTranscript reads an existing WhisperX JSON file for standalone
// consolidation. Configuration options (model, CUDA, VAD method, language)
// are passed via Config.
package whisperx
