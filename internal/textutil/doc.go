// Package textutil provides text comparison helpers used when cleaning
// transcripts.
//
// EditSimilarity scores two strings in [0, 1] from their rune-level
// Levenshtein distance. Segment consolidation relies on it to detect repeated
// transcription output; the score is symmetric and deterministic so the same
// input always merges the same way.
package textutil
