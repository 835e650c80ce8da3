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

	"github.com/goliatone/go-qti2tex/cmd/qti2tex/internal/bootstrap"
	convertcmd "github.com/goliatone/go-qti2tex/internal/commands/convert"
	"github.com/goliatone/go-qti2tex/internal/exam"
	"github.com/goliatone/go-qti2tex/internal/runtimeconfig"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "qti2tex: %v\n", err)
		return exitUsage
	}

	module, err := moduleBuilder(cfg, bootstrap.Options{LogWriter: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "qti2tex: %v\n", err)
		return exitUsage
	}

	result, err := module.Handler.Run(ctx, convertcmd.ConvertPackageCommand{
		Input:        cfg.Input,
		Output:       cfg.Output,
		Title:        cfg.Title,
		Author:       cfg.Author,
		HeaderFile:   cfg.HeaderFile,
		ReportFile:   cfg.ReportFile,
		PrintAnswers: cfg.PrintAnswers,
	})
	if err != nil {
		fmt.Fprintf(stderr, "qti2tex: %v\n", err)
		return exitError
	}

	printSummary(stdout, cfg, result)
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()

	fs := flag.NewFlagSet("qti2tex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: qti2tex [flags] <package.zip|directory>")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Output, "o", cfg.Output, "Output .tex file (shorthand)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Output .tex file; media is written to a sibling media/ directory")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "Exam title used when the input has none")
	fs.StringVar(&cfg.Author, "author", "", "Author or course line shown under the title")
	fs.StringVar(&cfg.HeaderFile, "header", "", "Markdown file with front matter (title, description, author) and instructions")
	fs.StringVar(&cfg.ReportFile, "report", "", "Write a JSON conversion report to this path")
	fs.BoolVar(&cfg.PrintAnswers, "answers", false, "Print correct answers (\\printanswers)")
	fs.StringVar(&cfg.Converter.Provider, "converter", cfg.Converter.Provider, "Rich-text converter: auto, native or pandoc")
	fs.StringVar(&cfg.Converter.PandocPath, "pandoc", cfg.Converter.PandocPath, "Pandoc executable")
	fs.DurationVar(&cfg.Converter.Timeout, "pandoc-timeout", cfg.Converter.Timeout, "Timeout per pandoc invocation (0 disables)")
	fs.StringVar(&cfg.Logging.Provider, "logger", cfg.Logging.Provider, "Logging provider: console or gologger")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Minimum log level")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "gologger format: json, console or pretty")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	switch fs.NArg() {
	case 1:
		cfg.Input = fs.Arg(0)
	case 0:
		fs.Usage()
		return cfg, runtimeconfig.ErrInputRequired
	default:
		fs.Usage()
		return cfg, fmt.Errorf("expected one input path, got %d", fs.NArg())
	}
	return cfg, nil
}

func printSummary(w io.Writer, cfg runtimeconfig.Config, result *exam.Result) {
	questions := 0
	mediaDir := filepath.Join(filepath.Dir(cfg.Output), "media")
	if result != nil {
		questions = result.Count()
		if result.MediaDir != "" {
			mediaDir = result.MediaDir
		}
	}
	fmt.Fprintf(w, "Wrote %s (%d questions).\n", cfg.Output, questions)
	if cfg.ReportFile != "" {
		fmt.Fprintf(w, "Report written to %s.\n", cfg.ReportFile)
	}
	fmt.Fprintf(w, "Note: image files copied (best-effort) to %s%c. Compile with:\n", mediaDir, filepath.Separator)
	fmt.Fprintf(w, "  pdflatex -interaction=nonstopmode %s\n", quoteArg(filepath.Base(cfg.Output)))
}

func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}
