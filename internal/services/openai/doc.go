// Package openai adapts the go-openai SDK to subforge's transcription and
// translation collaborators.
//
// A single Client serves both roles: Transcribe uploads extracted audio and
// maps verbose JSON segments onto subtitles.Segment, and Complete drives chat
// completions for the translation pass. BaseURL lets either point at any
// OpenAI-compatible server. SDK errors are tagged with the services markers
// so run history can classify them.
package openai
