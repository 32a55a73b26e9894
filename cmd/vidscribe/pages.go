package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/config"
	"vidscribe/internal/pagination"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/transcript"
)

func newPagesCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions

	cmd := &cobra.Command{
		Use:   "pages <transcript>",
		Short: "Paginate a stored transcript",
		Long: `Paginate a transcript that is already on disk.

The argument is either a path to a transcript file or the name of a stored
transcript as shown by "vidscribe cache list".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tokensPerPage := cfg.Pagination.TokensPerPage
			if cmd.Flags().Changed("tokens-per-page") {
				tokensPerPage = opts.tokensPerPage
			}

			path, err := resolveTranscriptPath(cfg, args[0])
			if err != nil {
				return err
			}
			doc, err := transcript.Read(path)
			if err != nil {
				return err
			}

			tokenizer, err := newTokenizer(cfg)
			if err != nil {
				return fmt.Errorf("load tokenizer: %w", err)
			}
			pages, err := pagination.NewPaginator(tokenizer).Paginate(doc.Text, tokensPerPage)
			if err != nil {
				return err
			}
			view := pipeline.NewView(pages, doc.Text)

			if opts.jsonOutput {
				return writeJSON(cmd, map[string]any{
					"transcript_path": doc.Path,
					"view":            view,
				})
			}

			out := cmd.OutOrStdout()
			if opts.list {
				printPageOverview(out, view)
				return nil
			}
			return printPages(out, view, opts.page, opts.all)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page to print (1-based)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Print every page")
	cmd.Flags().BoolVar(&opts.list, "list", false, "Print a page overview instead of page text")
	cmd.Flags().IntVar(&opts.tokensPerPage, "tokens-per-page", 0, "Override the configured page token budget")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Emit the pages as JSON")

	return cmd
}

// resolveTranscriptPath accepts a file path or a stored transcript name.
func resolveTranscriptPath(cfg *config.Config, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("transcript path or name is required")
	}

	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", path)
		}
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("inspect path %q: %w", path, err)
	}

	stored := transcript.PathForName(cfg.Paths.TranscriptDir, arg)
	if _, err := os.Stat(stored); err == nil {
		return stored, nil
	}
	return "", fmt.Errorf("transcript %q not found (looked for %s and %s)", arg, path, filepath.Base(stored))
}
