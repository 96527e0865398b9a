package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/contentobj/detect"
	"github.com/fwojciec/contentobj/driver"
	"github.com/fwojciec/contentobj/goquery"
	cohttp "github.com/fwojciec/contentobj/http"
	"github.com/fwojciec/contentobj/mimetype"
	"github.com/fwojciec/contentobj/pdf"
	cslog "github.com/fwojciec/contentobj/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read when the extract source is "-". Set before calling Run().
	Stdin io.Reader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("contentobj"),
		kong.Description("Extract typed content from HTML and PDF documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'contentobj --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Wire services shared by every command.
	deps.Backend = detect.NewDetector(mimetype.NewBackend())
	deps.Detector = cslog.NewLoggingDetector(deps.Backend, deps.Logger)
	deps.Drivers = driver.NewFactory(deps.Detector,
		cohttp.WithTimeout(cli.Timeout),
		cohttp.WithUserAgent(cli.UserAgent),
		cohttp.WithRetryDelays(cohttp.BackoffDelays(cli.Retries)...),
		cohttp.WithLimiter(cohttp.NewHostLimiter(cli.RateLimit)),
	)
	deps.PDF = pdf.NewAnalyzer(
		pdf.WithProviders(
			pdf.NewLedongthuc(),
			pdf.NewPdftotext(pdf.WithBinary(cli.Pdftotext)),
			pdf.NewStream(),
		),
		pdf.WithTempDir(cli.TempDir),
	)
	deps.Analyzer = cslog.NewLoggingPDFAnalyzer(deps.PDF, deps.Logger)
	deps.Parser = cslog.NewLoggingHTMLParser(goquery.NewParser(), deps.Logger)

	return kongCtx.Run(deps)
}
