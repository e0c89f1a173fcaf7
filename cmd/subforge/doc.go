// Package main hosts the subforge CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline
// runs, standalone SRT translation and consolidation, run history queries,
// dependency checks and configuration scaffolding. It centralizes
// configuration resolution, logger construction and backend wiring so
// subcommands only decide what to run.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
