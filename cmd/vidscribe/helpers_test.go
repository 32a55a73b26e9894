package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidscribe/internal/config"
	"vidscribe/internal/pagination"
	"vidscribe/internal/pipeline"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("VIDSCRIBE_DATA_DIR", "")
	t.Setenv("VIDSCRIBE_DEVICE", "")
	t.Setenv("VIDSCRIBE_MODEL", "")
	t.Setenv(tiktokenCacheEnv, filepath.Join(base, "tiktoken"))
	t.Chdir(base)

	dataDir := filepath.Join(base, "data")
	configPath := filepath.Join(base, "vidscribe-test.toml")
	content := "[paths]\ndata_dir = \"" + dataDir + "\"\n\n[transcription]\ndevice = \"cpu\"\n\n[pagination]\ntokens_per_page = 4\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	originalTokenizer := newTokenizer
	newTokenizer = func(*config.Config) (pagination.Tokenizer, error) { return wordTokenizer(), nil }
	t.Cleanup(func() { newTokenizer = originalTokenizer })

	return &cliTestEnv{baseDir: base, dataDir: dataDir, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	fullArgs := args
	if configPath != "" {
		fullArgs = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(fullArgs)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}

// wordTokenizer counts one token per whitespace-separated word.
func wordTokenizer() pagination.Tokenizer {
	return pagination.TokenizerFunc(func(text string) []int {
		return make([]int, len(strings.Fields(text)))
	})
}

// stubDependencies replaces pipeline construction with in-process fakes
// backed by a real transcript store under the configured directory.
func stubDependencies(t *testing.T, acquirer pipeline.Acquirer, transcriber pipeline.Transcriber) {
	t.Helper()
	original := newDependencies
	newDependencies = func(cfg *config.Config, logger *slog.Logger) (pipeline.Dependencies, error) {
		deps, err := original(cfg, logger)
		if err != nil {
			return pipeline.Dependencies{}, err
		}
		deps.Acquirer = acquirer
		deps.Transcriber = transcriber
		return deps, nil
	}
	t.Cleanup(func() { newDependencies = original })
}
