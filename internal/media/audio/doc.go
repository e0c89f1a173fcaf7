// Package audio selects and extracts the audio track that feeds transcription.
//
// Select ranks the audio streams reported by ffprobe: a stream tagged with the
// preferred language wins, then the default disposition, and commentary or
// audio-description tracks are pushed to the bottom. Extractor combines that
// choice with ffmpeg to produce the mono 16 kHz PCM WAV consumed by the
// transcription backends.
package audio
