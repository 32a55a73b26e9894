package whisperx

// Config captures runtime settings for WhisperX operations.
type Config struct {
	// Model is the Whisper model to load (e.g., "base", "large-v3").
	Model string
	// Device is "auto", "cuda" or "cpu".
	Device string
	// Language is an optional hint; empty lets the model detect it.
	Language string
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
	// UVXBinary runs WhisperX from an isolated Python environment.
	UVXBinary string
	// StagingDir holds per-call scratch directories.
	StagingDir string
}

// WhisperX configuration constants.
const (
	DefaultModel      = "base"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "30"
	BeamSize          = "5"
	Temperature       = "0.0"
	OutputFormat      = "json"
	ComputeType       = "float32"
	DeviceAuto        = "auto"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// Command names for external tools.
const (
	UVXCommand       = "uvx"
	NvidiaSMICommand = "nvidia-smi"
)
