// Package translation maps subtitle records through a text translator.
//
// Pass.Translate keeps each record's index and timing and replaces only the
// text. Calls may run concurrently up to Options.Concurrency; results are
// gathered into slots keyed by input position so output order always equals
// input order. ChatTranslator adapts any chat completion client to the
// Translator interface, and CachedTranslator adds a persistent cache in front
// of it.
package translation
