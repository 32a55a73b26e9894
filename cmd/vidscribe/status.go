package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories, compute device and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			failed := preflight.Failed(results)

			if jsonOutput {
				checks := make([]map[string]any, 0, len(results))
				for _, r := range results {
					checks = append(checks, map[string]any{
						"name":   r.Name,
						"passed": r.Passed,
						"detail": r.Detail,
					})
				}
				return writeJSON(cmd, map[string]any{
					"ready":  len(failed) == 0,
					"checks": checks,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Preflight", colorize)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			lines = append(lines,
				renderStatusLine("Audio", statusInfo, cfg.Paths.AudioDir, colorize),
				renderStatusLine("Transcripts", statusInfo, cfg.Paths.TranscriptDir, colorize),
				renderStatusLine("Staging", statusInfo, cfg.Paths.StagingDir, colorize),
				renderStatusLine("Logs", statusInfo, cfg.Paths.LogDir, colorize),
			)
			lines = append(lines, "")
			lines = append(lines, renderStatusLine("Ready", readyKind(failed), yesNo(len(failed) == 0), colorize))
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the checks as JSON")
	return cmd
}

func readyKind(failed []preflight.Result) statusKind {
	if len(failed) > 0 {
		return statusError
	}
	return statusOK
}
