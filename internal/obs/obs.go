// Package obs wires up swfx's structured logging: a slog.Logger that
// swaps in an OpenTelemetry-backed logger when OTEL_EXPORTER_OTLP_ENDPOINT
// is configured (spec.md §9 ambient stack; SPEC_FULL.md §4.8).
package obs

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/turnforge/swfx"

// Tracer is the process-wide tracer, following the teacher's
// `Tracer = otel.Tracer(name)` package-var convention (services/gaebe/client.go).
var Tracer = otel.Tracer(instrumentationName)

var (
	once   sync.Once
	logger *slog.Logger
)

// StartSpan opens a span named name under ctx using the package Tracer, for
// the budget governor and extractor's timeline build to wrap as work units.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, name)
}

// Logger returns the process-wide structured logger: a text handler on
// stderr by default, or an OTel-bridged logger when
// OTEL_EXPORTER_OTLP_ENDPOINT is set in the environment.
func Logger() *slog.Logger {
	once.Do(func() {
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
			logger = otelslog.NewLogger("swfx")
			return
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	})
	return logger
}

// Or returns l if non-nil, else the default process logger — the nil-safe
// seam every processor accepts its *slog.Logger field through.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
