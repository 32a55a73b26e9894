package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

const (
	maxLineBytes        = 1024 * 1024
	DefaultPollInterval = 250 * time.Millisecond
)

// Filter reports whether a line should be kept.
type Filter func(line string) bool

// RunFilter keeps lines that mention runID. An empty runID keeps everything.
func RunFilter(runID string) Filter {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil
	}
	return func(line string) bool {
		return strings.Contains(line, runID)
	}
}

// Snapshot is the result of reading a log file.
type Snapshot struct {
	Lines []string
	// Offset is the byte position following the last line read.
	Offset int64
}

// Last returns up to limit of the final lines in path that pass filter.
// A missing file yields an empty snapshot.
func Last(path string, limit int, filter Filter) (Snapshot, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return Snapshot{}, err
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return Snapshot{}, fmt.Errorf("seek log file: %w", err)
		}
		return Snapshot{Offset: offset}, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	err = scan(file, func(line string) {
		if filter != nil && !filter(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return Snapshot{}, err
	}

	offset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return Snapshot{}, fmt.Errorf("determine log offset: %w", err)
	}

	lines := make([]string, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return Snapshot{Lines: lines, Offset: offset}, nil
}

// From returns every line written at or after offset. An offset beyond the
// end of the file, as happens after truncation, restarts from the beginning.
func From(path string, offset int64, filter Filter) (Snapshot, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return Snapshot{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Snapshot{}, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Snapshot{}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	err = scan(file, func(line string) {
		if filter == nil || filter(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return Snapshot{}, err
	}
	newOffset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return Snapshot{}, fmt.Errorf("determine log offset: %w", err)
	}
	return Snapshot{Lines: lines, Offset: newOffset}, nil
}

// Follow polls path from offset and calls emit for each new line until ctx
// is done. It returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, offset int64, poll time.Duration, filter Filter, emit func(string)) error {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		snap, err := From(path, offset, filter)
		if err != nil {
			return err
		}
		for _, line := range snap.Lines {
			emit(line)
		}
		offset = snap.Offset

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// scan reads whole lines only. A trailing partial line is left for the next
// read by rewinding to its start.
func scan(file *os.File, fn func(string)) error {
	start, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("determine log offset: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	consumed := start
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(strings.TrimRight(line, "\r\n"))
	}
	if _, err := file.Seek(consumed, io.SeekStart); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}
	return nil
}
