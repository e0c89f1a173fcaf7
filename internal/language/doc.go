// Package language normalizes language codes and names.
//
// A small table covers the languages seen most often; everything else is
// resolved through golang.org/x/text so regional tags and less common codes
// still map to ISO 639-1 and English display names.
package language
