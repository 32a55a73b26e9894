// Package audio converts downloaded media into the canonical PCM WAV format
// consumed by the transcription engine.
//
// Conversion shells out to ffmpeg. The output is 16-bit little-endian PCM at
// 44.1 kHz with the source channel layout preserved.
package audio
