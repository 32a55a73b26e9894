package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is used when no yt-dlp command is configured.
const DefaultBinary = "yt-dlp"

// AudioFormatSelector prefers an audio-only stream and falls back to the best muxed one.
const AudioFormatSelector = "bestaudio/best"

// Format describes one downloadable rendition reported by yt-dlp.
type Format struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	ACodec   string `json:"acodec"`
	VCodec   string `json:"vcodec"`
}

// HasAudio reports whether the format carries an audio stream.
func (f Format) HasAudio() bool {
	return codecPresent(f.ACodec)
}

// Info is the subset of yt-dlp's JSON metadata used by acquisition.
type Info struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Extractor  string   `json:"extractor"`
	WebpageURL string   `json:"webpage_url"`
	Duration   float64  `json:"duration"`
	ACodec     string   `json:"acodec"`
	Formats    []Format `json:"formats"`
}

// HasAudio reports whether any rendition of the source carries audio.
func (i Info) HasAudio() bool {
	if codecPresent(i.ACodec) {
		return true
	}
	for _, format := range i.Formats {
		if format.HasAudio() {
			return true
		}
	}
	return false
}

// Client runs yt-dlp.
type Client struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient returns a Client that executes the given binary.
func NewClient(binary string) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing). The runner
// returns the command's standard output.
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.commandRunner = runner
}

// Metadata resolves the source URL without downloading any media.
func (c *Client) Metadata(ctx context.Context, url string) (Info, error) {
	output, err := c.run(ctx, BuildMetadataArgs(url)...)
	if err != nil {
		return Info{}, fmt.Errorf("yt-dlp metadata: %w", err)
	}
	var info Info
	if err := json.Unmarshal(output, &info); err != nil {
		return Info{}, fmt.Errorf("yt-dlp metadata: parse json: %w", err)
	}
	if strings.TrimSpace(info.Title) == "" {
		info.Title = info.ID
	}
	return info, nil
}

// Download fetches the best available audio for url using the yt-dlp output
// template and returns the path of the file it wrote.
func (c *Client) Download(ctx context.Context, url, outputTemplate string) (string, error) {
	if strings.TrimSpace(outputTemplate) == "" {
		return "", errors.New("yt-dlp download: output template required")
	}
	output, err := c.run(ctx, BuildDownloadArgs(url, outputTemplate)...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}
	path := lastLine(output)
	if path == "" {
		return "", errors.New("yt-dlp download: no output path reported")
	}
	return path, nil
}

// BuildMetadataArgs returns the arguments used by Metadata.
func BuildMetadataArgs(url string) []string {
	return []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--",
		url,
	}
}

// BuildDownloadArgs returns the arguments used by Download.
func BuildDownloadArgs(url, outputTemplate string) []string {
	return []string{
		"-f", AudioFormatSelector,
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"-o", outputTemplate,
		"--no-simulate",
		"--print", "after_move:filepath",
		"--",
		url,
	}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

func codecPresent(codec string) bool {
	codec = strings.TrimSpace(strings.ToLower(codec))
	return codec != "" && codec != "none"
}

func lastLine(output []byte) string {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
