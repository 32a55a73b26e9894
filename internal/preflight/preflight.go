package preflight

import (
	"context"
	"fmt"

	"vidscribe/internal/config"
	"vidscribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory, device and executable checks for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Audio directory", cfg.Paths.AudioDir),
		CheckDirectoryAccess("Transcript directory", cfg.Paths.TranscriptDir),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckComputeDevice(cfg),
	}
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, fromStatus(status))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	if status.Available {
		detail := status.Path
		if status.Version != "" {
			detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
		}
		return Result{Name: status.Name, Passed: true, Detail: detail}
	}
	// Optional tools never fail preflight.
	return Result{Name: status.Name, Passed: status.Optional, Detail: status.Detail}
}
