// Package deps checks that the external executables vidscribe relies on
// (yt-dlp, ffmpeg, ffprobe, uvx) can be resolved, and reports their versions
// for the status command.
package deps
