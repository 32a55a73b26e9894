package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidscribe/internal/acquisition"
	"vidscribe/internal/staging"
	"vidscribe/internal/transcript"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean cached audio, transcripts and scratch space",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheCleanCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached audio files, transcripts and staging directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			audioFiles, err := acquisition.ListAudio(cfg.Paths.AudioDir)
			if err != nil {
				return err
			}
			transcripts, err := transcript.NewStore(cfg.Paths.TranscriptDir, logger).List()
			if err != nil {
				return err
			}
			dirs, err := staging.ListDirectories(cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("list staging directories: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"audio":       nonNil(audioFiles),
					"transcripts": nonNil(transcripts),
					"staging":     nonNil(dirs),
				})
			}

			out := cmd.OutOrStdout()
			now := time.Now()

			rows := make([][]string, 0, len(audioFiles))
			var audioTotal int64
			for _, f := range audioFiles {
				rows = append(rows, []string{f.Name, humanize.IBytes(uint64(f.Size)), humanize.RelTime(f.ModTime, now, "ago", "from now")})
				audioTotal += f.Size
			}
			printCacheSection(out, "Audio", cfg.Paths.AudioDir, []string{"Title", "Size", "Modified"}, rows, audioTotal)

			rows = make([][]string, 0, len(transcripts))
			var transcriptTotal int64
			for _, e := range transcripts {
				rows = append(rows, []string{e.Name, humanize.IBytes(uint64(e.Size)), humanize.RelTime(e.ModTime, now, "ago", "from now")})
				transcriptTotal += e.Size
			}
			printCacheSection(out, "Transcripts", cfg.Paths.TranscriptDir, []string{"Title", "Size", "Modified"}, rows, transcriptTotal)

			rows = make([][]string, 0, len(dirs))
			var stagingTotal int64
			for _, d := range dirs {
				rows = append(rows, []string{d.Name, humanize.IBytes(uint64(d.Size)), humanize.RelTime(d.ModTime, now, "ago", "from now")})
				stagingTotal += d.Size
			}
			printCacheSection(out, "Staging", cfg.Paths.StagingDir, []string{"Directory", "Size", "Modified"}, rows, stagingTotal)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the listing as JSON")
	return cmd
}

func printCacheSection(out io.Writer, title, dir string, headers []string, rows [][]string, total int64) {
	fmt.Fprintf(out, "%s (%s)\n", title, dir)
	if len(rows) == 0 {
		fmt.Fprintln(out, "  (empty)")
		fmt.Fprintln(out)
		return
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
	fmt.Fprintf(out, "Total: %d, %s\n\n", len(rows), humanize.IBytes(uint64(total)))
}

func newCacheCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale staging directories",
		Long: `Remove scratch directories left behind by interrupted transcriptions.

Only directories older than --max-age are removed. The default comes from
staging.max_age_hours in the configuration. Cached audio files and transcripts
are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			age := time.Duration(cfg.Staging.MaxAgeHours) * time.Hour
			if cmd.Flags().Changed("max-age") {
				if maxAge < 0 {
					return fmt.Errorf("--max-age must not be negative")
				}
				age = maxAge
			}

			result := staging.CleanStale(cmd.Context(), cfg.Paths.StagingDir, age, logger)

			if jsonOutput {
				errs := make([]map[string]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					errs = append(errs, map[string]string{"path": e.Path, "error": e.Error.Error()})
				}
				return writeJSON(cmd, map[string]any{
					"removed": nonNil(result.Removed),
					"errors":  errs,
				})
			}

			out := cmd.OutOrStdout()
			if len(result.Removed) == 0 && len(result.Errors) == 0 {
				fmt.Fprintf(out, "No staging directories older than %s\n", age)
				return nil
			}
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(out, "Failed to remove %s: %v\n", e.Path, e.Error)
			}
			fmt.Fprintf(out, "Removed %d staging %s\n", len(result.Removed), plural(len(result.Removed), "directory", "directories"))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d staging %s could not be removed", len(result.Errors), plural(len(result.Errors), "directory", "directories"))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Remove directories older than this (e.g. 12h); defaults to staging.max_age_hours")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the cleanup result as JSON")
	return cmd
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
