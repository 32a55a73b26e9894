package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"vidscribe/internal/config"
	"vidscribe/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckComputeDevice reports which device transcription will use. A forced
// cuda device without a visible NVIDIA driver fails; auto falls back to CPU.
func CheckComputeDevice(cfg *config.Config) Result {
	const name = "Compute device"
	_, err := exec.LookPath("nvidia-smi")
	hasCUDA := err == nil

	switch cfg.Transcription.Device {
	case config.DeviceCPU:
		return Result{Name: name, Passed: true, Detail: "cpu (configured)"}
	case config.DeviceCUDA:
		if !hasCUDA {
			return Result{Name: name, Detail: "cuda configured but nvidia-smi not found"}
		}
		return Result{Name: name, Passed: true, Detail: "cuda (configured)"}
	default:
		if hasCUDA {
			return Result{Name: name, Passed: true, Detail: "auto (cuda candidate)"}
		}
		return Result{Name: name, Passed: true, Detail: "auto (cpu)"}
	}
}

// CheckSystemDeps evaluates the external executables the pipeline invokes.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Tools.YTDLP,
			Description: "Required for metadata and audio download",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for WAV conversion",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Verifies downloads carry an audio stream",
			Optional:    true,
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "uvx",
			Command:     cfg.Tools.UVX,
			Description: "Required for WhisperX-driven transcription",
			VersionArgs: []string{"--version"},
		},
	}
	return deps.CheckBinaries(ctx, requirements)
}
