// Command vidscribe turns a video URL into a paginated transcript.
//
// The transcribe command downloads the audio track with yt-dlp, converts it to
// WAV with ffmpeg, transcribes it with WhisperX, and prints the transcript one
// page at a time. Audio files and transcripts are cached under the configured
// data directory so repeated runs for the same video skip finished work.
package main
