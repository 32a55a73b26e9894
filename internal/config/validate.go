package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validatePagination(); err != nil {
		return err
	}
	if c.Staging.MaxAgeHours < 0 {
		return errors.New("staging.max_age_hours must be >= 0")
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Device {
	case DeviceAuto, DeviceCUDA, DeviceCPU:
	default:
		return fmt.Errorf("transcription.device must be one of auto, cuda, cpu (got %q)", c.Transcription.Device)
	}
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method must be silero or pyannote (got %q)", c.Transcription.VADMethod)
	}
	return nil
}

func (c *Config) validatePagination() error {
	if c.Pagination.TokensPerPage <= 0 {
		return fmt.Errorf("pagination.tokens_per_page must be positive (got %d)", c.Pagination.TokensPerPage)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
