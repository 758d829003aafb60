// Command hermes converts books into slide decks from the command line:
// local PDFs or Google Books volumes in, PPTX or DOCX out.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hermesdeck/hermes/internal/books"
	"github.com/hermesdeck/hermes/internal/config"
	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/export"
	"github.com/hermesdeck/hermes/internal/ocr"
	"github.com/hermesdeck/hermes/internal/pipeline"
	"github.com/hermesdeck/hermes/internal/summarize"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:           "hermes",
		Short:         "Convert books and documents into presentations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (API keys still come from env)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newConvertCmd(&configPath))
	root.AddCommand(newBooksCmd(&configPath))
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func buildPipeline(cfg *config.Config) (*pipeline.Service, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var ocrClient document.OCRClient
	if client, err := ocr.New(cfg.OCR.Languages); err != nil {
		if !errors.Is(err, ocr.ErrNotEnabled) {
			slog.Warn("OCR unavailable", "error", err)
		}
	} else {
		ocrClient = client
		cleanup = func() { client.Close() }
	}

	summarizer, err := summarize.NewService(cfg.Summarizer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	svc := pipeline.New(document.NewService(ocrClient), summarizer, cfg.Pipeline.ChunkSize)
	return svc, cleanup, nil
}

func newConvertCmd(configPath *string) *cobra.Command {
	var out, title, format string
	var fromPage, toPage int

	cmd := &cobra.Command{
		Use:   "convert <input.pdf>",
		Short: "Convert a PDF into a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			svc, cleanup, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			result, err := svc.Convert(context.Background(), data, pipeline.Options{
				FromPage: fromPage,
				ToPage:   toPage,
				Title:    title,
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			return writeOutputs(cmd, result, out, format)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVar(&title, "title", "", "override the document title")
	cmd.Flags().StringVar(&format, "format", "pptx", "output format: pptx|docx|both")
	cmd.Flags().IntVar(&fromPage, "from", 0, "first page to convert (1-based)")
	cmd.Flags().IntVar(&toPage, "to", 0, "last page to convert (1-based)")
	return cmd
}

func newBooksCmd(configPath *string) *cobra.Command {
	booksCmd := &cobra.Command{Use: "books", Short: "Work with Google Books volumes"}

	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Google Books",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := books.New()
			results, err := client.Search(context.Background(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no volumes found")
				return nil
			}
			for _, b := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s", b.ID, b.Title)
				if len(b.Authors) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " by %s", strings.Join(b.Authors, ", "))
				}
				if b.PublishedDate != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " (%s)", b.PublishedDate)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	searchCmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results")

	var out, title, format string
	convertCmd := &cobra.Command{
		Use:   "convert <volume-id>",
		Short: "Build a presentation from a volume's description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			svc, cleanup, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			book, err := books.New().Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			result, err := svc.ConvertBook(context.Background(), book, pipeline.Options{Title: title})
			if err != nil {
				return err
			}

			if out == "" {
				out = sanitizeName(book.Title)
			}
			return writeOutputs(cmd, result, out, format)
		},
	}
	convertCmd.Flags().StringVarP(&out, "out", "o", "", "output path without extension (default: volume title)")
	convertCmd.Flags().StringVar(&title, "title", "", "override the deck title")
	convertCmd.Flags().StringVar(&format, "format", "pptx", "output format: pptx|docx|both")

	booksCmd.AddCommand(searchCmd)
	booksCmd.AddCommand(convertCmd)
	return booksCmd
}

func writeOutputs(cmd *cobra.Command, result *pipeline.Result, out, format string) error {
	wantPPTX := format == "pptx" || format == "both"
	wantDOCX := format == "docx" || format == "both"
	if !wantPPTX && !wantDOCX {
		return fmt.Errorf("unsupported format: %q", format)
	}

	if wantPPTX {
		path := out + ".pptx"
		if err := os.WriteFile(path, result.PPTX, 0644); err != nil {
			return fmt.Errorf("write pptx: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d slides, %s)\n", path, result.Slides, result.Language)
	}
	if wantDOCX {
		path := out + ".docx"
		if err := export.WriteDocx(result.Deck, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}

	if result.Regenerated {
		fmt.Fprintln(cmd.OutOrStdout(), "note: output was regenerated after a failed self-test")
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(cmd.OutOrStdout(), "warning:", warning)
	}
	return nil
}

func sanitizeName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, title)
	name = strings.TrimSpace(name)
	if name == "" {
		return "presentation"
	}
	return name
}
