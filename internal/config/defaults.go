package config

const (
	defaultDataDir            = "data"
	defaultAudioSubdir        = "audio"
	defaultTranscriptSubdir   = "transcribed_text"
	defaultStagingSubdir      = "staging"
	defaultLogSubdir          = "logs"
	defaultTokenizerSubdir    = "tiktoken"
	defaultYTDLPCommand       = "yt-dlp"
	defaultFFmpegCommand      = "ffmpeg"
	defaultFFprobeCommand     = "ffprobe"
	defaultUVXCommand         = "uvx"
	defaultModel              = "base"
	defaultDevice             = DeviceAuto
	defaultVADMethod          = "silero"
	defaultTokensPerPage      = 1000
	defaultEncoding           = "cl100k_base"
	defaultStagingMaxAgeHours = 24
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Transcription device selections.
const (
	DeviceAuto = "auto"
	DeviceCUDA = "cuda"
	DeviceCPU  = "cpu"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Tools: Tools{
			YTDLP:   defaultYTDLPCommand,
			FFmpeg:  defaultFFmpegCommand,
			FFprobe: defaultFFprobeCommand,
			UVX:     defaultUVXCommand,
		},
		Transcription: Transcription{
			Model:     defaultModel,
			Device:    defaultDevice,
			VADMethod: defaultVADMethod,
		},
		Pagination: Pagination{
			TokensPerPage: defaultTokensPerPage,
			Encoding:      defaultEncoding,
		},
		Staging: Staging{
			MaxAgeHours: defaultStagingMaxAgeHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
