package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/detect"
	"github.com/fwojciec/contentobj/driver"
	"github.com/fwojciec/contentobj/pdf"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Backend is the undecorated detector, kept for backend state reports.
	Backend  *detect.Detector
	Detector contentobj.Detector
	Drivers  *driver.Factory

	// PDF is the undecorated analyzer, kept for provider reports.
	PDF      *pdf.Analyzer
	Analyzer contentobj.PDFAnalyzer
	Parser   contentobj.HTMLParser
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" env:"CONTENTOBJ_VERBOSE" help:"Log every read, detection and parse to stderr"`
	Timeout   time.Duration `default:"30s" env:"CONTENTOBJ_TIMEOUT" help:"Timeout for remote sources"`
	UserAgent string        `default:"contentobj/1.0" env:"CONTENTOBJ_USER_AGENT" help:"User-Agent sent to remote sources"`
	Retries   int           `default:"0" env:"CONTENTOBJ_RETRIES" help:"Retries for failed remote reads, with backoff from 1s"`
	RateLimit float64       `default:"2" env:"CONTENTOBJ_RATE_LIMIT" help:"Requests per second per host (0 for no limit)"`
	Pdftotext string        `default:"pdftotext" env:"CONTENTOBJ_PDFTOTEXT" help:"Path of the pdftotext binary"`
	TempDir   string        `env:"CONTENTOBJ_TEMP_DIR" help:"Directory for temporary PDF files"`

	Extract  ExtractCmd  `cmd:"" help:"Extract content nodes from a URL, file or stdin"`
	Detect   DetectCmd   `cmd:"" help:"Detect the media type and encoding of a file"`
	Backends BackendsCmd `cmd:"" help:"Show which detection and PDF backends are available"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source    string `arg:"" help:"URL, file path, or - for stdin"`
	MediaType string `name:"media-type" short:"m" help:"Declared media type, overriding the source's"`
	BaseURL   string `name:"base-url" env:"CONTENTOBJ_BASE_URL" help:"Base URL for relative links (defaults to the source URL)"`

	NoScripts bool `help:"Skip script elements"`
	NoStyles  bool `help:"Skip style elements and attributes"`
	NoImages  bool `help:"Skip images"`
	NoLinks   bool `help:"Skip links"`
	NoResolve bool `help:"Keep relative URLs as written"`

	MaxPages     int  `env:"CONTENTOBJ_MAX_PAGES" help:"Extract at most this many PDF pages (0 for all)"`
	Sections     bool `help:"Split PDF text into sections"`
	NoPageBreaks bool `help:"Join PDF pages without page markers in --text output"`

	Clean string `default:"none" enum:"none,readability,trafilatura" env:"CONTENTOBJ_CLEANER" help:"Reduce HTML to its main content first (none, readability, trafilatura)"`
	IDs   bool   `name:"ids" help:"Assign deterministic node ids"`
	Text  bool   `short:"t" help:"Print plain text instead of JSON lines"`
}

// DetectCmd is the "detect" subcommand.
type DetectCmd struct {
	Path string `arg:"" help:"File to classify"`
}

// BackendsCmd is the "backends" subcommand.
type BackendsCmd struct{}
