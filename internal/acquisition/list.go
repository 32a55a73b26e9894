package acquisition

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidscribe/internal/services"
)

// StoredAudio describes a canonical audio file on disk.
type StoredAudio struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size_bytes"`
	ModTime time.Time `json:"mod_time"`
}

// ListAudio returns the canonical WAV files in audioDir sorted by name.
// Downloads and in-progress conversions are skipped.
func ListAudio(audioDir string) ([]StoredAudio, error) {
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrStorage, stageName, "list audio", audioDir, err)
	}
	var out []StoredAudio
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.EqualFold(filepath.Ext(name), canonicalExt) {
			continue
		}
		if strings.Contains(name, "~") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, StoredAudio{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Path:    filepath.Join(audioDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return out, nil
}
