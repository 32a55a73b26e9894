// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations beneath them.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper so every stage failure
//     carries a taxonomy (acquisition, conversion, transcription, ...) that
//     callers can test with errors.Is while still rendering the message
//     verbatim.
//
// Subpackages wrap the external collaborators (yt-dlp, WhisperX) behind
// injectable command runners so the pipeline can be tested with stand-ins.
package services
