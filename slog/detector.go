package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/contentobj"
)

// Ensure LoggingDetector implements contentobj.Detector.
var _ contentobj.Detector = (*LoggingDetector)(nil)

// LoggingDetector wraps a Detector with debug logging.
type LoggingDetector struct {
	next   contentobj.Detector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next contentobj.Detector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// DetectFile delegates to the wrapped detector and logs the result.
func (d *LoggingDetector) DetectFile(path string) (det *contentobj.Detection, err error) {
	defer func(begin time.Time) {
		d.log("detect file", det, time.Since(begin), "path", path, "err", err)
	}(time.Now())
	return d.next.DetectFile(path)
}

// DetectBytes delegates to the wrapped detector and logs the result.
func (d *LoggingDetector) DetectBytes(data []byte, nameHint string) *contentobj.Detection {
	begin := time.Now()
	det := d.next.DetectBytes(data, nameHint)
	d.log("detect bytes", det, time.Since(begin), "bytes", len(data), "name", nameHint)
	return det
}

func (d *LoggingDetector) log(msg string, det *contentobj.Detection, took time.Duration, attrs ...any) {
	if det != nil {
		attrs = append(attrs,
			"media_type", det.MediaType,
			"encoding", det.Encoding,
			"method", det.Method,
		)
	}
	attrs = append(attrs, "duration", took)
	d.logger.Info(msg, attrs...)
}
