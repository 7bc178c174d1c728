// Command classify labels HPV vaccine comments from the command line.
//
// A single comment is classified with -comment and its label printed to
// stdout. A CSV or XLSX table is classified with -file and the augmented
// table written to -out, or to stdout when -out is empty.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/JaimeStill/stance/internal/classifier"
	"github.com/JaimeStill/stance/internal/comments"
	"github.com/JaimeStill/stance/internal/config"
	"github.com/JaimeStill/stance/internal/infrastructure"
	"github.com/JaimeStill/stance/pkg/completion"
)

type options struct {
	config  string
	comment string
	file    string
	out     string
	token   string
	model   string
	workers int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	logger := infrastructure.NewLogger(&cfg.Log, stderr)
	c := classifier.New(completion.New(&cfg.Completion), &cfg.Completion, logger)
	creds := classifier.Credentials{Token: cfg.Completion.Token}

	if opts.comment != "" {
		return classifyComment(ctx, c, opts.comment, creds, stdout, stderr)
	}

	runner := comments.NewRunner(c, c.Model(), cfg.Batch.Workers, logger)
	return classifyFile(ctx, runner, opts, creds, stdout, stderr)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.config, "config", "config.toml", "path to the base configuration file")
	fs.StringVar(&opts.comment, "comment", "", "classify a single comment")
	fs.StringVar(&opts.file, "file", "", "classify every row of a CSV or XLSX table")
	fs.StringVar(&opts.out, "out", "", "write the classified table here instead of stdout")
	fs.StringVar(&opts.token, "token", "", "completion API token (overrides configuration)")
	fs.StringVar(&opts.model, "model", "", "completion model (overrides configuration)")
	fs.IntVar(&opts.workers, "workers", 0, "concurrent classification calls per table (overrides configuration)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	switch {
	case opts.comment != "" && opts.file != "":
		return nil, errors.New("-comment and -file are mutually exclusive")
	case opts.comment == "" && opts.file == "":
		return nil, errors.New("one of -comment or -file is required")
	case opts.out != "" && opts.file == "":
		return nil, errors.New("-out requires -file")
	}

	if opts.comment != "" && strings.TrimSpace(opts.comment) == "" {
		return nil, classifier.ErrEmptyComment
	}

	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.config)
	if err != nil {
		return nil, err
	}

	if opts.token != "" {
		cfg.Completion.Token = opts.token
	}
	if opts.model != "" {
		cfg.Completion.Model = opts.model
	}
	if opts.workers != 0 {
		if opts.workers < 1 || opts.workers > config.MaxBatchWorkers {
			return nil, fmt.Errorf("-workers must be between 1 and %d, got %d", config.MaxBatchWorkers, opts.workers)
		}
		cfg.Batch.Workers = opts.workers
	}

	return cfg, nil
}

func classifyComment(ctx context.Context, c *classifier.Classifier, comment string, creds classifier.Credentials, stdout, stderr io.Writer) int {
	label, err := c.Classify(ctx, comment, creds)
	if err != nil {
		var callErr *classifier.CallError
		if !errors.As(err, &callErr) {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintln(stderr, "notice: classification failed:", err)
	}

	fmt.Fprintln(stdout, label)
	return 0
}

func classifyFile(ctx context.Context, runner *comments.Runner, opts *options, creds classifier.Credentials, stdout, stderr io.Writer) int {
	table, err := loadTable(opts.file)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	report, err := runner.ClassifyTable(ctx, table, creds)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	for _, f := range report.Failures {
		fmt.Fprintf(stderr, "notice: row %d failed: %s\n", f.Row, f.Error)
	}
	if report.Drifted > 0 {
		fmt.Fprintf(stderr, "notice: %d rows returned a label outside the rubric\n", report.Drifted)
	}

	if err := writeTable(opts.out, table, stdout); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintf(stderr, "classified %d rows (%d failed)\n", report.Rows, report.Failed())
	return 0
}

func loadTable(path string) (*comments.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", comments.ErrLoadFailed, err)
	}
	defer f.Close()

	return comments.Load(f, filepath.Base(path))
}

func writeTable(path string, table *comments.Table, stdout io.Writer) error {
	if path == "" {
		return comments.WriteCSV(stdout, table)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := comments.WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
