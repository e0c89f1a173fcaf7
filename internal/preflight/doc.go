// Package preflight provides readiness checks for the binaries, directories
// and remote APIs subforge depends on.
//
// The "subforge doctor" command renders every check. The "subforge run"
// command only consults CheckSystemDeps so a missing ffmpeg or uvx fails
// before any audio is extracted.
package preflight
