// Package acquisition resolves a media URL to a canonical local WAV file.
//
// The canonical path is <audio_dir>/<sanitized title>.wav. Its presence is the
// only record that acquisition succeeded: when it exists, Acquire returns
// after the metadata lookup without downloading or transcoding anything.
// Otherwise the best audio stream is downloaded (or an intermediate left by an
// earlier interrupted run is reused), transcoded to PCM WAV next to the target,
// and renamed into place.
//
// There is no locking. Two concurrent acquisitions of the same title may both
// do the work; the last rename wins.
package acquisition
