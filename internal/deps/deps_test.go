package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\necho 'present 1.2.3'\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present, VersionArgs: []string{"--version"}},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Version != "present 1.2.3" {
		t.Fatalf("unexpected version %q", results[0].Version)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := MissingRequired(results)
	if len(missing) != 1 || missing[0].Name != "Missing" {
		t.Fatalf("expected only the required missing binary, got %#v", missing)
	}
}

func TestCheckerVersionFailureIsBlank(t *testing.T) {
	checker := &Checker{
		lookPath: func(file string) (string, error) { return "/bin/" + file, nil },
		commandOutput: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 2")
		},
	}
	results := checker.Check(context.Background(), []Requirement{{Name: "tool", Command: "tool", VersionArgs: []string{"-version"}}})
	if !results[0].Available || results[0].Version != "" {
		t.Fatalf("expected available without version, got %#v", results[0])
	}
}

func TestCheckerVersionSkipsBlankLines(t *testing.T) {
	checker := &Checker{
		lookPath: func(file string) (string, error) { return file, nil },
		commandOutput: func(context.Context, string, ...string) ([]byte, error) {
			return []byte("\n\n  ffmpeg version 7.0  \nbuilt with gcc\n"), nil
		},
	}
	results := checker.Check(context.Background(), []Requirement{{Name: "FFmpeg", Command: "ffmpeg", VersionArgs: []string{"-version"}}})
	if results[0].Version != "ffmpeg version 7.0" {
		t.Fatalf("unexpected version %q", results[0].Version)
	}
}
