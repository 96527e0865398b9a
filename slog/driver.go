package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/contentobj"
)

// Ensure LoggingDriver implements contentobj.Driver.
var _ contentobj.Driver = (*LoggingDriver)(nil)

// LoggingDriver wraps a Driver with debug logging for reads.
type LoggingDriver struct {
	next   contentobj.Driver
	source string
	logger *slog.Logger
}

// NewLoggingDriver creates a new LoggingDriver. source names the wrapped
// driver's source in log records.
func NewLoggingDriver(next contentobj.Driver, source string, logger *slog.Logger) *LoggingDriver {
	return &LoggingDriver{next: next, source: source, logger: logger}
}

// CanHandle delegates to the wrapped driver.
func (d *LoggingDriver) CanHandle(source any) bool {
	return d.next.CanHandle(source)
}

// Content delegates to the wrapped driver and logs the read.
func (d *LoggingDriver) Content(ctx context.Context) (data []byte, err error) {
	defer func(begin time.Time) {
		d.logger.Info("read",
			"source", d.source,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Content(ctx)
}

// Text delegates to the wrapped driver and logs the read.
func (d *LoggingDriver) Text(ctx context.Context) (text string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("read text",
			"source", d.source,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Text(ctx)
}

// Metadata delegates to the wrapped driver.
func (d *LoggingDriver) Metadata(ctx context.Context) (map[string]any, error) {
	return d.next.Metadata(ctx)
}

// Available delegates to the wrapped driver and logs the result.
func (d *LoggingDriver) Available(ctx context.Context) bool {
	ok := d.next.Available(ctx)
	d.logger.Debug("availability", "source", d.source, "available", ok)
	return ok
}
