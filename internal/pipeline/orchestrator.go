package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/acquisition"
	"vidscribe/internal/logging"
	"vidscribe/internal/pagination"
	"vidscribe/internal/services"
	"vidscribe/internal/transcript"
)

// Stage names a pipeline step.
type Stage string

const (
	StageAcquire    Stage = "acquire"
	StageTranscribe Stage = "transcribe"
	StagePaginate   Stage = "paginate"
)

// Progress is emitted after each completed stage.
type Progress struct {
	RunID  string    `json:"run_id"`
	Stage  Stage     `json:"stage"`
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// ProgressFunc receives progress notifications synchronously.
type ProgressFunc func(Progress)

// Acquirer produces the canonical audio asset for a URL.
type Acquirer interface {
	Acquire(ctx context.Context, url string) (acquisition.AudioAsset, error)
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// TranscriptStore returns an existing transcript or produces one.
type TranscriptStore interface {
	GetOrCreate(ctx context.Context, audioPath string, produce transcript.ProduceFunc) (transcript.Document, error)
}

// Paginator splits transcript text into pages.
type Paginator interface {
	Paginate(text string, tokensPerPage int) ([]pagination.Page, error)
}

// Dependencies bundles the stage implementations.
type Dependencies struct {
	Acquirer    Acquirer
	Transcriber Transcriber
	Store       TranscriptStore
	Paginator   Paginator
}

// Result is the outcome of a successful run.
type Result struct {
	RunID      string
	Audio      acquisition.AudioAsset
	Transcript transcript.Document
	View       View
}

// Orchestrator runs the pipeline.
type Orchestrator struct {
	deps          Dependencies
	tokensPerPage int
	progress      ProgressFunc
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

// NewOrchestrator constructs an Orchestrator paginating at tokensPerPage.
func NewOrchestrator(deps Dependencies, tokensPerPage int, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		deps:          deps,
		tokensPerPage: tokensPerPage,
		logger:        logging.NewComponentLogger(logger, "pipeline"),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// OnProgress registers fn to receive progress notifications.
func (o *Orchestrator) OnProgress(fn ProgressFunc) *Orchestrator {
	o.progress = fn
	return o
}

// Run processes url and returns the result together with session extended by
// the request and every progress message. On failure the returned session
// records the error and the error is returned exactly as the stage produced it.
func (o *Orchestrator) Run(ctx context.Context, session Session, url string) (Result, Session, error) {
	runID := o.newID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)
	session = session.With(RoleUser, url)
	result := Result{RunID: runID}
	start := o.now()

	logger.Info("pipeline started", logging.String("url", url))

	fail := func(stage Stage, err error) (Result, Session, error) {
		logger.Error("pipeline stage failed",
			logging.String(logging.FieldStage, string(stage)),
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
		)
		return Result{}, session.With(RoleAssistant, "An error occurred: "+err.Error()), err
	}

	stageCtx := services.WithStage(ctx, string(StageAcquire))
	asset, err := o.deps.Acquirer.Acquire(stageCtx, url)
	if err != nil {
		return fail(StageAcquire, err)
	}
	result.Audio = asset
	session = o.emit(session, runID, StageAcquire, acquireStatus(asset))

	stageCtx = services.WithStage(ctx, string(StageTranscribe))
	doc, err := o.deps.Store.GetOrCreate(stageCtx, asset.Path, func(ctx context.Context) (string, error) {
		return o.deps.Transcriber.Transcribe(ctx, asset.Path)
	})
	if err != nil {
		return fail(StageTranscribe, err)
	}
	result.Transcript = doc
	session = o.emit(session, runID, StageTranscribe, transcribeStatus(doc))

	pages, err := o.deps.Paginator.Paginate(doc.Text, o.tokensPerPage)
	if err != nil {
		return fail(StagePaginate, err)
	}
	result.View = NewView(pages, doc.Text)
	session = o.emit(session, runID, StagePaginate, paginateStatus(result.View, o.tokensPerPage))

	logger.Info("pipeline finished",
		logging.Int("pages", result.View.TotalPages),
		logging.Duration("elapsed", o.now().Sub(start)),
	)
	return result, session, nil
}

func (o *Orchestrator) emit(session Session, runID string, stage Stage, status string) Session {
	if o.progress != nil {
		o.progress(Progress{RunID: runID, Stage: stage, Status: status, Time: o.now()})
	}
	return session.With(RoleAssistant, status)
}

func acquireStatus(asset acquisition.AudioAsset) string {
	switch {
	case asset.Reused:
		return fmt.Sprintf("Audio file already exists: %s. Skipping download.", asset.Path)
	case asset.Recovered:
		return fmt.Sprintf("Audio file converted from an earlier download: %s", asset.Path)
	default:
		return fmt.Sprintf("Audio file downloaded: %s", asset.Path)
	}
}

func transcribeStatus(doc transcript.Document) string {
	if doc.Created {
		return fmt.Sprintf("Transcription complete! Saved to %s", doc.Path)
	}
	return fmt.Sprintf("Transcript file already exists: %s. Skipping transcription.", doc.Path)
}

func paginateStatus(view View, tokensPerPage int) string {
	noun := "pages"
	if view.TotalPages == 1 {
		noun = "page"
	}
	return fmt.Sprintf("Transcript split into %d %s with a budget of %d tokens per page.", view.TotalPages, noun, tokensPerPage)
}
