// Package whisperx runs WhisperX speech recognition through uvx.
//
// A Service resolves its compute device once, on the first Load or
// Transcribe call, and keeps it for its lifetime: "auto" probes for a CUDA
// device with nvidia-smi and falls back to the CPU. Inference always runs in
// float32. Each call writes model output into its own scratch directory under
// the staging dir and returns the segment text joined into a single line.
//
// Transcribe does not memoize; skip-if-exists is the transcript store's job.
package whisperx
