package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/readinglist/internal/config"
	"github.com/dgallion1/readinglist/internal/emit"
	"github.com/dgallion1/readinglist/internal/parser"
	"github.com/dgallion1/readinglist/internal/pipeline"
	"github.com/dgallion1/readinglist/internal/reading"
	"github.com/dgallion1/readinglist/internal/segment"
	"github.com/spf13/cobra"
)

type parseFlags struct {
	format       string
	out          string
	groups       string
	summaryLimit int
	fallbackYear int
	verbose      bool
}

func newParseCmd() *cobra.Command {
	var f parseFlags
	c := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Convert bibliography documents into reading data",
		Long: `Reads one or more documents (.txt, .md, .html, .pdf, .docx), concatenates
their text in order and segments it into reading groups and readings.
With no files, or with "-", the bibliography is read from stdin as plain text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cmd, args, f)
		},
	}
	c.Flags().StringVarP(&f.format, "format", "f", "", "output format: ts, json or sqlite (default from --out extension or OUTPUT_FORMAT)")
	c.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	c.Flags().StringVar(&f.groups, "groups", "", "YAML file with group metadata keyed by section number (default GROUPS_FILE)")
	c.Flags().IntVar(&f.summaryLimit, "summary-limit", 0, "summary line length threshold in characters (default SUMMARY_LINE_LIMIT)")
	c.Flags().IntVar(&f.fallbackYear, "fallback-year", 0, "year used when a citation has none (default FALLBACK_YEAR)")
	c.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log per-reading warnings")
	return c
}

func runParse(ctx context.Context, cmd *cobra.Command, args []string, f parseFlags) error {
	cfg := config.Load()
	if f.groups != "" {
		cfg.GroupsFile = f.groups
	}
	if f.summaryLimit > 0 {
		cfg.SummaryLineLimit = f.summaryLimit
	}
	if f.fallbackYear > 0 {
		cfg.FallbackYear = f.fallbackYear
	}
	format := f.format
	if format == "" {
		format = emit.FormatForPath(f.out)
	}
	if format != "" {
		cfg.OutputFormat = config.NormalizeFormat(format)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.SlogLevel()
	if f.verbose {
		level = slog.LevelDebug
	}
	log := newLogger(cmd.ErrOrStderr(), level)

	writer, err := emit.ForFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}
	if cfg.OutputFormat == "sqlite" && (f.out == "" || f.out == "-") {
		return fmt.Errorf("sqlite output needs --out")
	}

	groups, err := config.LoadGroups(cfg.GroupsFile)
	if err != nil {
		return err
	}
	conv := pipeline.NewConverter(
		segment.Options{
			SummaryLineLimit: cfg.SummaryLineLimit,
			FallbackYear:     cfg.FallbackYear,
			Groups:           groups,
		},
		parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		nil,
		log,
	)

	if len(args) == 0 {
		args = []string{"-"}
	}
	sources := make([]*reading.Source, 0, len(args))
	for _, path := range args {
		src, err := extractFile(ctx, conv, cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		log.Debug("extracted", "file", path, "chars", len(src.Text))
		sources = append(sources, src)
	}

	res, err := conv.Segment(ctx, pipeline.Concat(sources...))
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Debug("reading needs attention", "slug", w.Slug, "issues", w.Issues)
	}

	if cfg.OutputFormat == "sqlite" {
		if err := emit.WriteSQLiteFile(ctx, f.out, res.Bibliography); err != nil {
			return err
		}
	} else if err := writeOutput(ctx, cmd.OutOrStdout(), f.out, writer, res.Bibliography); err != nil {
		return err
	}

	log.Info("wrote bibliography",
		"format", cfg.OutputFormat,
		"out", outputName(f.out),
		"groups", len(res.Bibliography.Groups),
		"readings", len(res.Bibliography.Readings),
		"warnings", len(res.Warnings),
	)
	return nil
}

func extractFile(ctx context.Context, conv *pipeline.Converter, stdin io.Reader, path string) (*reading.Source, error) {
	if path == "-" {
		return conv.Extract(ctx, stdin, "stdin.txt")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return conv.Extract(ctx, file, path)
}

func writeOutput(ctx context.Context, stdout io.Writer, path string, w emit.Writer, bib reading.Bibliography) error {
	if path == "" || path == "-" {
		return w.Write(ctx, stdout, bib)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := w.Write(ctx, file, bib); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
