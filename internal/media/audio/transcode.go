package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Canonical output parameters.
const (
	DefaultBinary = "ffmpeg"
	Codec         = "pcm_s16le"
	SampleRate    = "44100"
	Container     = "wav"
)

// Transcoder converts media files to WAV using ffmpeg.
type Transcoder struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewTranscoder returns a Transcoder that executes the given ffmpeg binary.
func NewTranscoder(binary string) *Transcoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Transcoder{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	t.commandRunner = runner
}

// Binary returns the ffmpeg command in use.
func (t *Transcoder) Binary() string {
	return t.binary
}

// ToWAV transcodes source into a PCM WAV file at dest. A nonzero ffmpeg exit
// is returned as an error; dest may be partially written in that case.
func (t *Transcoder) ToWAV(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("transcode: source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("transcode: destination path required")
	}
	return t.run(ctx, BuildWAVArgs(source, dest)...)
}

// BuildWAVArgs returns the ffmpeg arguments used by ToWAV.
func BuildWAVArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-acodec", Codec,
		"-ar", SampleRate,
		"-f", Container,
		dest,
	}
}

func (t *Transcoder) run(ctx context.Context, args ...string) error {
	if t.commandRunner != nil {
		return t.commandRunner(ctx, t.binary, args...)
	}
	cmd := exec.CommandContext(ctx, t.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg transcode: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
