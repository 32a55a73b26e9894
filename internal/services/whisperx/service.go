package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	langpkg "vidscribe/internal/language"
	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/staging"
)

const stageName = "transcribe"

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
	lookPath      func(file string) (string, error)

	loadOnce sync.Once
	device   string
	loadErr  error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.UVXBinary) == "" {
		cfg.UVXBinary = UVXCommand
	}
	if strings.TrimSpace(cfg.VADMethod) == "" {
		cfg.VADMethod = VADMethodSilero
	}
	return &Service{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "whisperx"),
		lookPath: exec.LookPath,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Device returns the compute device chosen by Load, or "" before loading.
func (s *Service) Device() string {
	return s.device
}

// Load resolves the compute device and confirms the runtime is present. It
// runs once per Service; later calls return the first result.
func (s *Service) Load(ctx context.Context) error {
	s.loadOnce.Do(func() {
		if _, err := s.lookPath(s.cfg.UVXBinary); err != nil {
			s.loadErr = services.Wrap(services.ErrTranscription, stageName, "load model",
				fmt.Sprintf("runtime %q not found", s.cfg.UVXBinary), err)
			return
		}
		device, err := s.resolveDevice(ctx)
		if err != nil {
			s.loadErr = services.Wrap(services.ErrTranscription, stageName, "load model", "no usable compute device", err)
			return
		}
		s.device = device
		s.logger.Info("transcription model ready",
			logging.Args(append(logging.DecisionAttrs("compute_device", device, s.deviceReason()),
				logging.String("model", s.cfg.Model))...)...)
	})
	return s.loadErr
}

func (s *Service) deviceReason() string {
	switch strings.ToLower(strings.TrimSpace(s.cfg.Device)) {
	case CUDADevice, CPUDevice:
		return "configured"
	default:
		return "auto-detected"
	}
}

func (s *Service) resolveDevice(ctx context.Context) (string, error) {
	switch device := strings.ToLower(strings.TrimSpace(s.cfg.Device)); device {
	case CUDADevice, CPUDevice:
		return device, nil
	case "", DeviceAuto:
		if err := s.run(ctx, NvidiaSMICommand, "-L"); err != nil {
			s.logger.Debug("no cuda device detected", logging.Error(err))
			return CPUDevice, nil
		}
		return CUDADevice, nil
	default:
		return "", fmt.Errorf("unsupported device %q", device)
	}
}

// Transcribe runs full-file inference on audioPath and returns the
// concatenated transcript as a single line of text.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", services.Wrap(services.ErrTranscription, stageName, "validate", "audio path required", nil)
	}
	if err := s.Load(ctx); err != nil {
		return "", err
	}

	scratch, err := staging.NewScratchDir(s.cfg.StagingDir, "whisperx")
	if err != nil {
		return "", services.Wrap(services.ErrStorage, stageName, "scratch dir", "", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logging.WarnWithContext(s.logger, "failed to remove scratch directory", "staging_cleanup_failed",
				logging.String("path", scratch),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run vidscribe cache clean"),
			)
		}
	}()

	args := s.buildArgs(audioPath, scratch)
	s.logger.Info("transcribing audio",
		logging.String("audio", filepath.Base(audioPath)),
		logging.String("model", s.cfg.Model),
		logging.String("device", s.device),
	)
	if err := s.run(ctx, s.cfg.UVXBinary, args...); err != nil {
		return "", services.Wrap(services.ErrTranscription, stageName, "inference", "whisperx failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	segments, err := LoadSegments(filepath.Join(scratch, baseName+".json"))
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, stageName, "read output", "", err)
	}
	return JoinSegments(segments), nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 32)

	if s.device == CUDADevice {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.cfg.Model,
		"--batch_size", BatchSize,
		"--chunk_size", ChunkSize,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--vad_method", s.cfg.VADMethod,
		"--no_align",
	)
	if s.cfg.VADMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	// Reduced precision is never used; results must not vary with the device.
	args = append(args, "--device", s.device, "--compute_type", ComputeType)
	return args
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	if payload.Segments == nil {
		return nil, errors.New("whisperx json has no segments field")
	}
	return payload.Segments, nil
}

// JoinSegments concatenates segment text into newline-free continuous text.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.Join(strings.Fields(seg.Text), " "); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
