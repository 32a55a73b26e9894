// Package transcript persists transcript text with skip-if-exists semantics.
//
// Each audio file maps to <transcript_dir>/<audio stem>_transcript.txt. A
// transcript that exists is returned verbatim and never regenerated; one that
// does not is produced, written atomically, and returned. The filesystem is
// the only record, so a partial write must never be visible.
package transcript
