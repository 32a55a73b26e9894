package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/logging"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/preflight"
	"vidscribe/internal/services"
)

type transcribeOptions struct {
	page          int
	all           bool
	list          bool
	tokensPerPage int
	jsonOutput    bool
	skipChecks    bool
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions

	cmd := &cobra.Command{
		Use:   "transcribe <url>",
		Short: "Download, transcribe and paginate a video",
		Long: `Download the audio track of a video, transcribe it, and print the transcript
one page at a time.

Audio files and transcripts are cached by video title. Running the command
again for the same video reuses the cached files and only re-paginates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tokensPerPage := cfg.Pagination.TokensPerPage
			if cmd.Flags().Changed("tokens-per-page") {
				tokensPerPage = opts.tokensPerPage
			}

			if !opts.skipChecks {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
					return preflightError(failed)
				}
			}

			deps, err := newDependencies(cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			orchestrator := pipeline.NewOrchestrator(deps, tokensPerPage, logger)
			if !opts.jsonOutput {
				orchestrator.OnProgress(func(p pipeline.Progress) {
					fmt.Fprintln(out, p.Status)
				})
			}

			result, session, err := orchestrator.Run(cmd.Context(), pipeline.NewSession(), args[0])
			if opts.jsonOutput {
				if encErr := writeJSON(cmd, transcribeJSON(result, session, err)); encErr != nil {
					return encErr
				}
				return err
			}
			if err != nil {
				logger.Debug("transcribe command failed", logging.String("error_kind", services.Kind(err)))
				return err
			}

			fmt.Fprintln(out)
			if opts.list {
				printPageOverview(out, result.View)
				return nil
			}
			return printPages(out, result.View, opts.page, opts.all)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page to print (1-based)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Print every page")
	cmd.Flags().BoolVar(&opts.list, "list", false, "Print a page overview instead of page text")
	cmd.Flags().IntVar(&opts.tokensPerPage, "tokens-per-page", 0, "Override the configured page token budget")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVar(&opts.skipChecks, "skip-checks", false, "Skip dependency and directory checks")

	return cmd
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight checks failed (run `vidscribe status` for details): %s", strings.Join(parts, "; "))
}

func transcribeJSON(result pipeline.Result, session pipeline.Session, err error) map[string]any {
	payload := map[string]any{
		"session": session,
	}
	if err != nil {
		payload["error"] = map[string]any{
			"kind":    services.Kind(err),
			"message": err.Error(),
		}
		return payload
	}
	payload["run_id"] = result.RunID
	payload["audio_path"] = result.Audio.Path
	payload["title"] = result.Audio.Title
	payload["transcript_path"] = result.Transcript.Path
	payload["view"] = result.View
	return payload
}

func printPages(out io.Writer, view pipeline.View, page int, all bool) error {
	if all {
		for n := 1; n <= view.TotalPages; n++ {
			if n > 1 {
				fmt.Fprintln(out)
			}
			printPage(out, view, n)
		}
		return nil
	}
	if _, err := view.Page(page); err != nil {
		return err
	}
	printPage(out, view, page)
	return nil
}

func printPage(out io.Writer, view pipeline.View, n int) {
	page, _ := view.Page(n)
	fmt.Fprintln(out, view.Heading(n))
	fmt.Fprintln(out, strings.Repeat("-", len(view.Heading(n))))
	fmt.Fprintln(out, page.Text)
}

func printPageOverview(out io.Writer, view pipeline.View) {
	fmt.Fprintf(out, "Language: %s\n\n", view.Language.Label())
	rows := make([][]string, 0, len(view.Pages))
	for _, page := range view.Pages {
		rows = append(rows, []string{
			strconv.Itoa(page.Index),
			strconv.Itoa(page.End - page.Start),
			strconv.Itoa(page.TokenCount),
			preview(page.Text, 60),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Page", "Sentences", "Tokens", "Preview"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	))
}

func preview(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

