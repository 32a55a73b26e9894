package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidscribe/internal/config"
)

func TestLoadDefaultConfigDerivesDataLayout(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	workdir := t.TempDir()
	t.Chdir(workdir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "vidscribe", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	dataDir := filepath.Join(workdir, "data")
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, dataDir)
	}
	if cfg.Paths.AudioDir != filepath.Join(dataDir, "audio") {
		t.Fatalf("unexpected audio dir: %q", cfg.Paths.AudioDir)
	}
	if cfg.Paths.TranscriptDir != filepath.Join(dataDir, "transcribed_text") {
		t.Fatalf("unexpected transcript dir: %q", cfg.Paths.TranscriptDir)
	}
	if cfg.Paths.StagingDir != filepath.Join(dataDir, "staging") {
		t.Fatalf("unexpected staging dir: %q", cfg.Paths.StagingDir)
	}
	if cfg.Pagination.CacheDir != filepath.Join(dataDir, "tiktoken") {
		t.Fatalf("unexpected tokenizer cache dir: %q", cfg.Pagination.CacheDir)
	}
	if cfg.Pagination.TokensPerPage != 1000 {
		t.Fatalf("expected 1000 tokens per page, got %d", cfg.Pagination.TokensPerPage)
	}
	if cfg.Pagination.Encoding != "cl100k_base" {
		t.Fatalf("unexpected encoding: %q", cfg.Pagination.Encoding)
	}
	if cfg.Transcription.Model != "base" {
		t.Fatalf("unexpected model: %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Device != config.DeviceAuto {
		t.Fatalf("unexpected device: %q", cfg.Transcription.Device)
	}
	if cfg.Tools.YTDLP != "yt-dlp" || cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
}

func TestLoadCustomConfigOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	payload := struct {
		Paths struct {
			DataDir       string `toml:"data_dir"`
			TranscriptDir string `toml:"transcript_dir"`
		} `toml:"paths"`
		Transcription struct {
			Device string `toml:"device"`
			Model  string `toml:"model"`
		} `toml:"transcription"`
		Pagination struct {
			TokensPerPage int `toml:"tokens_per_page"`
		} `toml:"pagination"`
	}{}
	payload.Paths.DataDir = filepath.Join(tempDir, "store")
	payload.Paths.TranscriptDir = "~/transcripts"
	payload.Transcription.Device = "CPU"
	payload.Transcription.Model = "large-v3"
	payload.Pagination.TokensPerPage = 250

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.AudioDir != filepath.Join(tempDir, "store", "audio") {
		t.Fatalf("unexpected audio dir: %q", cfg.Paths.AudioDir)
	}
	home, _ := os.UserHomeDir()
	if cfg.Paths.TranscriptDir != filepath.Join(home, "transcripts") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.TranscriptDir)
	}
	if cfg.Transcription.Device != config.DeviceCPU {
		t.Fatalf("expected device to be lowercased, got %q", cfg.Transcription.Device)
	}
	if cfg.Transcription.Model != "large-v3" {
		t.Fatalf("unexpected model: %q", cfg.Transcription.Model)
	}
	if cfg.Pagination.TokensPerPage != 250 {
		t.Fatalf("unexpected tokens per page: %d", cfg.Pagination.TokensPerPage)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dataDir := t.TempDir()
	t.Setenv("VIDSCRIBE_DATA_DIR", dataDir)
	t.Setenv("VIDSCRIBE_DEVICE", "cuda")
	t.Setenv("VIDSCRIBE_MODEL", "small")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
	if cfg.Transcription.Device != config.DeviceCUDA {
		t.Fatalf("expected device from env, got %q", cfg.Transcription.Device)
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("expected model from env, got %q", cfg.Transcription.Model)
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	t.Chdir(workdir)
	t.Setenv("VIDSCRIBE_DEVICE", "cpu")

	dotenv := "VIDSCRIBE_DEVICE=cuda\nVIDSCRIBE_MODEL=tiny\n"
	if err := os.WriteFile(filepath.Join(workdir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("VIDSCRIBE_MODEL") })

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.Device != config.DeviceCPU {
		t.Fatalf("expected process env to win over .env, got %q", cfg.Transcription.Device)
	}
	if cfg.Transcription.Model != "tiny" {
		t.Fatalf("expected model from .env, got %q", cfg.Transcription.Model)
	}
}

func TestLoadFallsBackToProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	t.Chdir(workdir)

	content := "[pagination]\ntokens_per_page = 42\n"
	if err := os.WriteFile(filepath.Join(workdir, "vidscribe.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "vidscribe.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Pagination.TokensPerPage != 42 {
		t.Fatalf("unexpected tokens per page: %d", cfg.Pagination.TokensPerPage)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"device", func(c *config.Config) { c.Transcription.Device = "tpu" }, "transcription.device"},
		{"vad", func(c *config.Config) { c.Transcription.VADMethod = "webrtc" }, "transcription.vad_method"},
		{"budget zero", func(c *config.Config) { c.Pagination.TokensPerPage = 0 }, "pagination.tokens_per_page"},
		{"budget negative", func(c *config.Config) { c.Pagination.TokensPerPage = -5 }, "pagination.tokens_per_page"},
		{"staging age", func(c *config.Config) { c.Staging.MaxAgeHours = -1 }, "staging.max_age_hours"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[pagination\ntokens_per_page = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Pagination.TokensPerPage != 1000 {
		t.Fatalf("unexpected sample tokens per page: %d", cfg.Pagination.TokensPerPage)
	}
}

func TestEnsureDirectoriesCreatesLayout(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.TranscriptDir = filepath.Join(base, "text")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.AudioDir, cfg.Paths.TranscriptDir, cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
