// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and returns a Result; Parse decodes a payload that was
// captured elsewhere. Helper methods on Result expose the audio streams and
// the container duration, which is all the subtitle pipeline needs.
package ffprobe
