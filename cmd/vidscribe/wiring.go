package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"vidscribe/internal/acquisition"
	"vidscribe/internal/config"
	"vidscribe/internal/media/audio"
	"vidscribe/internal/media/ffprobe"
	"vidscribe/internal/pagination"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/services/whisperx"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcript"
)

// hfTokenEnv supplies the Hugging Face token required by pyannote VAD.
const hfTokenEnv = "HF_TOKEN"

// Overridden in tests to avoid fetching tokenizer vocabularies or running
// external tools.
var (
	newTokenizer = func(cfg *config.Config) (pagination.Tokenizer, error) {
		return pagination.NewTiktokenTokenizer(cfg.Pagination.Encoding)
	}
	newDependencies = buildDependencies
	lookPath        = exec.LookPath
)

func buildDependencies(cfg *config.Config, logger *slog.Logger) (pipeline.Dependencies, error) {
	tokenizer, err := newTokenizer(cfg)
	if err != nil {
		return pipeline.Dependencies{}, fmt.Errorf("load tokenizer: %w", err)
	}

	acquirer := acquisition.NewAcquirer(
		cfg.Paths.AudioDir,
		ytdlp.NewClient(cfg.Tools.YTDLP),
		audio.NewTranscoder(cfg.Tools.FFmpeg),
		logger,
	)
	// ffprobe is optional; downloads go unprobed when it is not installed.
	if probe := strings.TrimSpace(cfg.Tools.FFprobe); probe != "" {
		if _, err := lookPath(probe); err == nil {
			acquirer = acquirer.WithProber(ffprobe.NewProber(probe))
		}
	}

	transcriber := whisperx.NewService(whisperx.Config{
		Model:      cfg.Transcription.Model,
		Device:     cfg.Transcription.Device,
		Language:   cfg.Transcription.Language,
		VADMethod:  cfg.Transcription.VADMethod,
		HFToken:    strings.TrimSpace(os.Getenv(hfTokenEnv)),
		UVXBinary:  cfg.Tools.UVX,
		StagingDir: cfg.Paths.StagingDir,
	}, logger)

	return pipeline.Dependencies{
		Acquirer:    acquirer,
		Transcriber: transcriber,
		Store:       transcript.NewStore(cfg.Paths.TranscriptDir, logger),
		Paginator:   pagination.NewPaginator(tokenizer),
	}, nil
}
