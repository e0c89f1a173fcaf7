// Package services defines shared utilities consumed by the pipeline stages
// and the external integrations under it.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and source paths for
//     logging.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified consistently (see Details).
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays uniform across the pipeline.
package services
