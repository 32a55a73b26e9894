// Package staging manages per-run scratch directories under paths.staging_dir.
//
// Transcription writes intermediate model output into a scratch directory and
// removes it afterwards. Directories orphaned by a crash are reclaimed by
// CleanStale once they are older than staging.max_age_hours.
package staging
