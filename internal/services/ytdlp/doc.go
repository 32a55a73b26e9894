// Package ytdlp wraps the yt-dlp command line tool for metadata lookups and
// best-audio downloads.
//
// Metadata resolution never transfers media. Downloads write a single file
// chosen by an output template and report the final path yt-dlp printed after
// any post-processing moves.
package ytdlp
