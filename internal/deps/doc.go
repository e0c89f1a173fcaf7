// Package deps checks that the external binaries subforge shells out to
// (ffmpeg, ffprobe, uvx) can be resolved from PATH.
package deps
