package acquisition

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListAudioSkipsNonCanonicalFiles(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"Talk.wav":             "RIFF",
		"Other.wav":            "RIFFRIFF",
		"Talk.webm":            "media",
		"Next~transcoding.wav": "partial",
		"Clip~download.wav":    "raw",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.wav"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ListAudio(dir)
	if err != nil {
		t.Fatalf("ListAudio: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %+v", got)
	}
	if got[0].Name != "Other" || got[0].Size != 8 {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[1].Name != "Talk" || got[1].Path != filepath.Join(dir, "Talk.wav") {
		t.Fatalf("unexpected second entry %+v", got[1])
	}
}

func TestListAudioMissingDirectory(t *testing.T) {
	got, err := ListAudio(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ListAudio: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no files, got %+v", got)
	}
}
