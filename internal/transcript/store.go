package transcript

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidscribe/internal/fileutil"
	"vidscribe/internal/logging"
	"vidscribe/internal/services"
)

const (
	stageName = "transcribe"
	suffix    = "_transcript.txt"
)

// Document is a stored transcript.
type Document struct {
	SourceAudioPath string
	Path            string
	Text            string
	// Created is true when this call produced and wrote the transcript.
	Created bool
}

// ProduceFunc generates transcript text for an audio file.
type ProduceFunc func(ctx context.Context) (string, error)

// Store reads and writes transcripts under a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logging.NewComponentLogger(logger, "transcript")}
}

// Dir returns the directory transcripts are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the transcript path for audioPath inside dir.
func PathFor(dir, audioPath string) string {
	base := filepath.Base(audioPath)
	return PathForName(dir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// PathForName returns the transcript path for a stored name as reported by
// List. The name is used as is, dots included.
func PathForName(dir, name string) string {
	return filepath.Join(dir, name+suffix)
}

// GetOrCreate returns the stored transcript for audioPath. When none exists it
// calls produce, writes the result, and returns it. produce is never called
// for an existing transcript, and its errors are returned unchanged.
func (s *Store) GetOrCreate(ctx context.Context, audioPath string, produce ProduceFunc) (Document, error) {
	logger := logging.WithContext(ctx, s.logger)
	doc := Document{
		SourceAudioPath: audioPath,
		Path:            PathFor(s.dir, audioPath),
	}

	data, err := os.ReadFile(doc.Path)
	switch {
	case err == nil:
		logger.Info("transcript already exists; skipping transcription",
			logging.Args(append(logging.DecisionAttrs("transcribe", "skip", "transcript file exists"),
				logging.String("path", doc.Path))...)...)
		doc.Text = string(data)
		return doc, nil
	case !errors.Is(err, fs.ErrNotExist):
		return Document{}, services.Wrap(services.ErrStorage, stageName, "read transcript", doc.Path, err)
	}

	start := time.Now()
	text, err := produce(ctx)
	if err != nil {
		return Document{}, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Document{}, services.Wrap(services.ErrStorage, stageName, "ensure transcript dir", s.dir, err)
	}
	if err := fileutil.WriteFileAtomic(doc.Path, []byte(text), 0o644); err != nil {
		return Document{}, services.Wrap(services.ErrStorage, stageName, "write transcript", doc.Path, err)
	}
	logger.Info("transcript saved",
		logging.String("path", doc.Path),
		logging.Int("bytes", len(text)),
		logging.Duration("elapsed", time.Since(start)),
	)
	doc.Text = text
	doc.Created = true
	return doc, nil
}

// Read loads a transcript file directly.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, services.Wrap(services.ErrStorage, stageName, "read transcript", path, err)
	}
	return Document{Path: path, Text: string(data)}, nil
}

// Entry describes a stored transcript for listings.
type Entry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size_bytes"`
	ModTime time.Time `json:"mod_time"`
}

// List returns the transcripts in the store, sorted by name.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrStorage, stageName, "list transcripts", s.dir, err)
	}
	var out []Entry
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name:    strings.TrimSuffix(entry.Name(), suffix),
			Path:    filepath.Join(s.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return out, nil
}
