package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTranscription()
	if err := c.normalizePagination(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

// applyEnv lets a handful of environment variables override file values so a
// single run can be redirected without editing the config.
func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("VIDSCRIBE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("VIDSCRIBE_DEVICE"); ok && strings.TrimSpace(value) != "" {
		c.Transcription.Device = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("VIDSCRIBE_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.Transcription.Model = strings.TrimSpace(value)
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	for _, entry := range []struct {
		key    string
		value  *string
		subdir string
	}{
		{"paths.audio_dir", &c.Paths.AudioDir, defaultAudioSubdir},
		{"paths.transcript_dir", &c.Paths.TranscriptDir, defaultTranscriptSubdir},
		{"paths.staging_dir", &c.Paths.StagingDir, defaultStagingSubdir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogSubdir},
	} {
		if strings.TrimSpace(*entry.value) == "" {
			*entry.value = filepath.Join(c.Paths.DataDir, entry.subdir)
		}
		if *entry.value, err = expandPath(*entry.value); err != nil {
			return fmt.Errorf("%s: %w", entry.key, err)
		}
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.YTDLP = withDefault(c.Tools.YTDLP, defaultYTDLPCommand)
	c.Tools.FFmpeg = withDefault(c.Tools.FFmpeg, defaultFFmpegCommand)
	c.Tools.FFprobe = withDefault(c.Tools.FFprobe, defaultFFprobeCommand)
	c.Tools.UVX = withDefault(c.Tools.UVX, defaultUVXCommand)
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = withDefault(c.Transcription.Model, defaultModel)
	c.Transcription.Device = strings.ToLower(withDefault(c.Transcription.Device, defaultDevice))
	c.Transcription.VADMethod = strings.ToLower(withDefault(c.Transcription.VADMethod, defaultVADMethod))
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
}

func (c *Config) normalizePagination() error {
	c.Pagination.Encoding = withDefault(c.Pagination.Encoding, defaultEncoding)
	if strings.TrimSpace(c.Pagination.CacheDir) == "" {
		c.Pagination.CacheDir = filepath.Join(c.Paths.DataDir, defaultTokenizerSubdir)
	}
	var err error
	if c.Pagination.CacheDir, err = expandPath(c.Pagination.CacheDir); err != nil {
		return fmt.Errorf("pagination.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(withDefault(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(withDefault(c.Logging.Level, defaultLogLevel))
}

func withDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
