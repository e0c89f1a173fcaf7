// Package pipeline sequences a subtitle run for one video.
//
// The Orchestrator walks a linear state machine: extracting, transcribing,
// consolidating, writing_original, translating, writing_translated,
// cleaning_up and done. Any stage error moves the run to failed and skips
// every later stage. Cancellation is checked between stages only. Each run
// holds an advisory lock on its source video and, when a RunRecorder is
// supplied, every transition is written to run history.
//
// TranslateFile and ConsolidateToFile expose the translation and
// consolidation halves on their own for existing subtitle and transcript
// files.
package pipeline
