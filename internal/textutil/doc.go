// Package textutil provides filename sanitization for titles pulled from
// remote media sources.
//
// Sanitized names are used verbatim as the stem of the canonical audio file
// and its transcript, so the mapping must be deterministic and idempotent.
// Two distinct titles may sanitize to the same name; callers accept that
// collision rather than guarding against it.
package textutil
