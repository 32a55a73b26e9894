package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"vidscribe/internal/fileutil"
	"vidscribe/internal/logging"
	"vidscribe/internal/media/ffprobe"
	"vidscribe/internal/services"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/textutil"
)

const (
	stageName         = "acquire"
	canonicalExt = ".wav"
	// Work files carry a '~' marker. Sanitized titles never contain '~', so a
	// work file can never collide with any canonical path.
	downloadMarker    = "~download"
	transcodingSuffix = "~transcoding" + canonicalExt
)

// partialExts mark files yt-dlp is still writing or abandoned mid-transfer.
var partialExts = map[string]struct{}{
	".part": {},
	".ytdl": {},
	".tmp":  {},
}

// Source resolves metadata and downloads audio for a URL.
type Source interface {
	Metadata(ctx context.Context, url string) (ytdlp.Info, error)
	Download(ctx context.Context, url, outputTemplate string) (string, error)
}

// Transcoder converts a media file to PCM WAV.
type Transcoder interface {
	ToWAV(ctx context.Context, source, dest string) error
}

// Prober inspects downloaded media before conversion.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// AudioAsset describes the canonical audio file for a source.
type AudioAsset struct {
	Title          string
	SanitizedTitle string
	Path           string
	Format         string
	// Reused is true when the canonical file already existed.
	Reused bool
	// Recovered is true when a leftover download was converted instead of fetching again.
	Recovered bool
}

// Acquirer downloads and converts source audio.
type Acquirer struct {
	audioDir   string
	source     Source
	transcoder Transcoder
	prober     Prober
	logger     *slog.Logger
}

// NewAcquirer constructs an Acquirer writing under audioDir.
func NewAcquirer(audioDir string, source Source, transcoder Transcoder, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		audioDir:   audioDir,
		source:     source,
		transcoder: transcoder,
		logger:     logging.NewComponentLogger(logger, "acquisition"),
	}
}

// WithProber enables a stream check on downloaded media before conversion.
func (a *Acquirer) WithProber(prober Prober) *Acquirer {
	a.prober = prober
	return a
}

// CanonicalPath returns the canonical WAV path for a sanitized title.
func CanonicalPath(audioDir, sanitizedTitle string) string {
	return filepath.Join(audioDir, sanitizedTitle+canonicalExt)
}

// Acquire returns the canonical audio asset for rawURL, producing it if absent.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (AudioAsset, error) {
	logger := logging.WithContext(ctx, a.logger)

	if err := ValidateURL(rawURL); err != nil {
		return AudioAsset{}, services.Wrap(services.ErrAcquisition, stageName, "validate url", "malformed source url", err)
	}
	rawURL = strings.TrimSpace(rawURL)

	info, err := a.source.Metadata(ctx, rawURL)
	if err != nil {
		return AudioAsset{}, services.Wrap(services.ErrAcquisition, stageName, "resolve metadata", "source metadata unavailable", err)
	}

	safe := textutil.SanitizeFileName(info.Title)
	asset := AudioAsset{
		Title:          info.Title,
		SanitizedTitle: safe,
		Path:           CanonicalPath(a.audioDir, safe),
		Format:         "wav",
	}
	logger = logger.With(logging.String("title", safe))

	exists, err := fileutil.Exists(asset.Path)
	if err != nil {
		return AudioAsset{}, services.Wrap(services.ErrStorage, stageName, "stat canonical", asset.Path, err)
	}
	if exists {
		logger.Info("audio already present; skipping download",
			logging.Args(append(logging.DecisionAttrs("acquire", "reuse", "canonical file exists"),
				logging.String("path", asset.Path))...)...)
		asset.Reused = true
		return asset, nil
	}

	if !info.HasAudio() {
		return AudioAsset{}, services.Wrap(services.ErrAcquisition, stageName, "select stream", "source has no audio stream", nil)
	}

	if err := os.MkdirAll(a.audioDir, 0o755); err != nil {
		return AudioAsset{}, services.Wrap(services.ErrStorage, stageName, "ensure audio dir", a.audioDir, err)
	}

	intermediate, err := FindIntermediate(a.audioDir, safe)
	if err != nil {
		return AudioAsset{}, services.Wrap(services.ErrStorage, stageName, "scan audio dir", a.audioDir, err)
	}
	if intermediate != "" {
		logger.Info("converting leftover download",
			logging.Args(append(logging.DecisionAttrs("acquire", "recover", "intermediate file exists"),
				logging.String("source", intermediate))...)...)
		asset.Recovered = true
	} else {
		logger.Info("downloading audio", logging.String("url", rawURL))
		template := DownloadTemplate(a.audioDir, safe)
		intermediate, err = a.source.Download(ctx, rawURL, template)
		if err != nil {
			return AudioAsset{}, services.Wrap(services.ErrAcquisition, stageName, "download", "audio transfer failed", err)
		}
		logger.Debug("download complete", logging.String("source", intermediate))
	}

	if err := a.checkStreams(ctx, intermediate); err != nil {
		return AudioAsset{}, err
	}

	if err := a.convert(ctx, logger, intermediate, asset.Path); err != nil {
		return AudioAsset{}, err
	}

	attrs := []logging.Attr{logging.String("path", asset.Path)}
	if info, err := os.Stat(asset.Path); err == nil {
		attrs = append(attrs, logging.String("size", humanize.IBytes(uint64(info.Size()))))
	}
	logger.Info("audio ready", logging.Args(attrs...)...)
	return asset, nil
}

func (a *Acquirer) checkStreams(ctx context.Context, path string) error {
	if a.prober == nil {
		return nil
	}
	result, err := a.prober.Inspect(ctx, path)
	if err != nil {
		return services.Wrap(services.ErrAcquisition, stageName, "probe", filepath.Base(path), err)
	}
	if result.AudioStreamCount() == 0 {
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			logging.WarnWithContext(a.logger, "failed to remove unusable download", "cleanup_failed",
				logging.String("path", path),
				logging.Error(removeErr),
				logging.String(logging.FieldImpact, "a later run will probe the same file again"),
			)
		}
		return services.Wrap(services.ErrAcquisition, stageName, "probe", "downloaded media has no audio stream", nil)
	}
	return nil
}

// convert transcodes intermediate into a temporary WAV beside canonical, drops
// the intermediate, and renames the result into place.
func (a *Acquirer) convert(ctx context.Context, logger *slog.Logger, intermediate, canonical string) error {
	temp := strings.TrimSuffix(canonical, canonicalExt) + transcodingSuffix
	logger.Info("converting to wav", logging.String("source", filepath.Base(intermediate)))
	if err := a.transcoder.ToWAV(ctx, intermediate, temp); err != nil {
		_ = os.Remove(temp)
		return services.Wrap(services.ErrConversion, stageName, "transcode", filepath.Base(intermediate), err)
	}

	if err := os.Remove(intermediate); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "failed to remove intermediate download", "cleanup_failed",
			logging.String("path", intermediate),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the file manually"),
			logging.String(logging.FieldImpact, "disk space is not reclaimed"),
		)
	}

	if err := fileutil.ReplaceFile(temp, canonical); err != nil {
		return services.Wrap(services.ErrAssetNotFound, stageName, "finalize", canonical, err)
	}
	exists, err := fileutil.Exists(canonical)
	if err != nil || !exists {
		return services.Wrap(services.ErrAssetNotFound, stageName, "finalize", canonical, err)
	}
	return nil
}

// DownloadTemplate returns the yt-dlp output template for a sanitized title.
func DownloadTemplate(audioDir, sanitizedTitle string) string {
	return filepath.Join(audioDir, sanitizedTitle+downloadMarker+".%(ext)s")
}

// FindIntermediate returns a completed, not-yet-converted download for the
// sanitized title, or "" when none exists.
func FindIntermediate(audioDir, sanitizedTitle string) (string, error) {
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	prefix := sanitizedTitle + downloadMarker + "."
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		ext, ok := strings.CutPrefix(name, prefix)
		if !ok || ext == "" || strings.Contains(ext, ".") {
			continue
		}
		dotted := "." + strings.ToLower(ext)
		if _, partial := partialExts[dotted]; partial {
			continue
		}
		return filepath.Join(audioDir, name), nil
	}
	return "", nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return errors.New("url is empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}
