// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Acquisition uses it to confirm a downloaded intermediate actually carries
// an audio stream before handing it to the transcoder.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Prober: executes ffprobe with an injectable command runner
package ffprobe
