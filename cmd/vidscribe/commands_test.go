package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vidscribe/internal/acquisition"
	"vidscribe/internal/services"
	"vidscribe/internal/transcript"
)

type stubAcquirer struct {
	asset acquisition.AudioAsset
	err   error
	calls int
}

func (s *stubAcquirer) Acquire(context.Context, string) (acquisition.AudioAsset, error) {
	s.calls++
	return s.asset, s.err
}

type stubTranscriber struct {
	text  string
	calls int
}

func (s *stubTranscriber) Transcribe(context.Context, string) (string, error) {
	s.calls++
	return s.text, nil
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Tokens per page: 4")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestTranscribePrintsProgressAndPage(t *testing.T) {
	env := setupCLITestEnv(t)
	audioPath := filepath.Join(env.dataDir, "audio", "Talk.wav")
	acq := &stubAcquirer{asset: acquisition.AudioAsset{Title: "Talk", SanitizedTitle: "Talk", Path: audioPath}}
	tr := &stubTranscriber{text: "One two three. Four five six. Seven."}
	stubDependencies(t, acq, tr)

	out, _, err := runCLI(t, []string{"transcribe", "--skip-checks", "https://example.com/watch?v=1"}, env.configPath)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	requireContains(t, out, "Audio file downloaded: "+audioPath)
	requireContains(t, out, "Transcription complete! Saved to ")
	requireContains(t, out, "Transcript split into 2 pages with a budget of 4 tokens per page.")
	requireContains(t, out, "Page 1 of 2")
	requireContains(t, out, "One two three.")
	if strings.Contains(out, "Four five six.") {
		t.Fatalf("expected only the first page, got:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"transcribe", "--skip-checks", "--page", "2", "https://example.com/watch?v=1"}, env.configPath)
	if err != nil {
		t.Fatalf("second transcribe: %v", err)
	}
	requireContains(t, out, "Transcript file already exists:")
	requireContains(t, out, "Page 2 of 2")
	requireContains(t, out, "Four five six. Seven.")
	if tr.calls != 1 {
		t.Fatalf("expected transcriber to run once, ran %d times", tr.calls)
	}
}

func TestTranscribeRejectsOutOfRangePage(t *testing.T) {
	env := setupCLITestEnv(t)
	acq := &stubAcquirer{asset: acquisition.AudioAsset{Path: filepath.Join(env.dataDir, "audio", "A.wav")}}
	stubDependencies(t, acq, &stubTranscriber{text: "Short."})

	_, _, err := runCLI(t, []string{"transcribe", "--skip-checks", "--page", "5", "https://example.com/a"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestTranscribeJSONReportsErrorKind(t *testing.T) {
	env := setupCLITestEnv(t)
	acqErr := services.Wrap(services.ErrAcquisition, "acquire", "metadata", "unsupported url", nil)
	stubDependencies(t, &stubAcquirer{err: acqErr}, &stubTranscriber{})

	out, _, err := runCLI(t, []string{"transcribe", "--skip-checks", "--json", "https://example.com/bad"}, env.configPath)
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}

	var payload struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
		Session struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		} `json:"session"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if payload.Error.Kind != "acquisition" {
		t.Fatalf("unexpected kind %q", payload.Error.Kind)
	}
	msgs := payload.Session.Messages
	if len(msgs) != 3 {
		t.Fatalf("expected greeting, request and error messages, got %+v", msgs)
	}
	if msgs[1].Role != "user" || msgs[1].Content != "https://example.com/bad" {
		t.Fatalf("unexpected user message %+v", msgs[1])
	}
	if !strings.HasPrefix(msgs[2].Content, "An error occurred: ") {
		t.Fatalf("unexpected error message %+v", msgs[2])
	}
}

func TestTranscribeOverridesTokenBudget(t *testing.T) {
	env := setupCLITestEnv(t)
	acq := &stubAcquirer{asset: acquisition.AudioAsset{Path: filepath.Join(env.dataDir, "audio", "B.wav")}}
	stubDependencies(t, acq, &stubTranscriber{text: "One two three. Four five six. Seven."})

	out, _, err := runCLI(t, []string{"transcribe", "--skip-checks", "--tokens-per-page", "0", "https://example.com/b"}, env.configPath)
	if !errors.Is(err, services.ErrInvalidBudget) {
		t.Fatalf("expected invalid budget error, got %v", err)
	}
	requireContains(t, out, "Transcription complete!")

	out, _, err = runCLI(t, []string{"transcribe", "--skip-checks", "--tokens-per-page", "100", "--list", "https://example.com/b"}, env.configPath)
	if err != nil {
		t.Fatalf("transcribe --list: %v", err)
	}
	requireContains(t, out, "Transcript split into 1 page with a budget of 100 tokens per page.")
	requireContains(t, out, "Language:")
}

func TestPagesPaginatesStoredTranscript(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.dataDir, "transcribed_text")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := transcript.PathFor(dir, "Lecture.wav")
	if err := os.WriteFile(path, []byte("Alpha beta. Gamma delta epsilon. Zeta."), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	out, _, err := runCLI(t, []string{"pages", "--all", "Lecture"}, env.configPath)
	if err != nil {
		t.Fatalf("pages by name: %v", err)
	}
	requireContains(t, out, "Page 1 of 2")
	requireContains(t, out, "Page 2 of 2")
	requireContains(t, out, "Gamma delta epsilon. Zeta.")

	out, _, err = runCLI(t, []string{"pages", "--json", path}, env.configPath)
	if err != nil {
		t.Fatalf("pages by path: %v", err)
	}
	var payload struct {
		View struct {
			TotalPages int `json:"total_pages"`
		} `json:"view"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload.View.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", payload.View.TotalPages)
	}

	dotted := transcript.PathFor(dir, "Lecture_3._Part_2.wav")
	if err := os.WriteFile(dotted, []byte("Dotted names resolve."), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	entries, err := transcript.NewStore(dir, nil).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var listed string
	for _, e := range entries {
		if e.Path == dotted {
			listed = e.Name
		}
	}
	if listed != "Lecture_3._Part_2" {
		t.Fatalf("unexpected listed name %q", listed)
	}
	out, _, err = runCLI(t, []string{"pages", listed}, env.configPath)
	if err != nil {
		t.Fatalf("pages by dotted name: %v", err)
	}
	requireContains(t, out, "Dotted names resolve.")

	if _, _, err := runCLI(t, []string{"pages", "Missing"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown transcript")
	}
}

func TestCacheListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Audio (")
	requireContains(t, out, "(empty)")

	audioDir := filepath.Join(env.dataDir, "audio")
	if err := os.WriteFile(filepath.Join(audioDir, "Talk.wav"), []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	stagingDir := filepath.Join(env.dataDir, "staging")
	stale := filepath.Join(stagingDir, "whisperx-stale")
	fresh := filepath.Join(stagingDir, "whisperx-fresh")
	for _, dir := range []string{stale, fresh} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err = runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Talk")
	requireContains(t, out, "whisperx-stale")

	out, _, err = runCLI(t, []string{"cache", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clean: %v", err)
	}
	requireContains(t, out, "Removed 1 staging directory")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale dir removed, stat err=%v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh dir kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(audioDir, "Talk.wav")); err != nil {
		t.Fatalf("expected audio kept: %v", err)
	}
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var payload struct {
		Checks []struct {
			Name   string `json:"name"`
			Passed bool   `json:"passed"`
		} `json:"checks"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(payload.Checks) != 8 {
		t.Fatalf("expected 8 checks, got %+v", payload.Checks)
	}
	for _, check := range payload.Checks[:3] {
		if !check.Passed {
			t.Fatalf("expected directory check %q to pass", check.Name)
		}
	}
}

func TestLogsFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t)
	logDir := filepath.Join(env.dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "INFO pipeline started run_id=aaa\nINFO pipeline started run_id=bbb\nINFO pipeline finished run_id=aaa\n"
	if err := os.WriteFile(filepath.Join(logDir, "vidscribe.log"), []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--run", "aaa"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "pipeline finished run_id=aaa")
	if strings.Contains(out, "bbb") {
		t.Fatalf("expected other runs filtered out:\n%s", out)
	}
}
