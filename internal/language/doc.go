// Package language normalizes language codes and identifies the language of
// transcript text.
//
// Codes are accepted in ISO 639-1, ISO 639-3 (and bibliographic 639-2) or
// English-name form. Detection uses trigram statistics from whatlanggo and is
// a display hint only; nothing downstream depends on it.
package language
