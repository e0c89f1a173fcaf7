// Package subtitles owns the subtitle data model and its on-disk SRT form.
//
// Transcription backends hand over Segments; Consolidate collapses repeated
// neighbours and RecordsFromSegments numbers the survivors into Records.
// Encode/Decode (and the WriteFile/ReadFile helpers) are exact inverses for
// single-line, trimmed cue text. The time codec renders seconds as
// HH:MM:SS,mmm with millisecond rounding that carries into the larger fields.
package subtitles
