package invocations

import (
	"log/slog"

	"github.com/benbjohnson/clock"
	im "github.com/galaxybio/blend/internal/metrics"
	"github.com/galaxybio/blend/metrics"
	"go.opentelemetry.io/otel/trace"
)

// DefaultChunkSize is the buffer size used when streaming binary report
// payloads to the caller's sink.
const DefaultChunkSize = 4096

type Options struct {
	Logger *slog.Logger

	Metrics metrics.Client

	TracerProvider trace.TracerProvider

	// Clock drives the sleeps between polls in Wait. Only tests should need
	// to replace it.
	Clock clock.Clock

	// ChunkSize bounds how much of a streamed report is held in memory at
	// once. If not explicitly set, DefaultChunkSize is used.
	ChunkSize int
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithMetrics(client metrics.Client) Option {
	return func(o *Options) {
		o.Metrics = client
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func applyOptions(opts ...Option) Options {
	options := Options{
		Logger:         slog.Default(),
		Metrics:        im.NewNoopMetricsClient(),
		TracerProvider: trace.NewNoopTracerProvider(),
		Clock:          clock.New(),
		ChunkSize:      DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.ChunkSize <= 0 {
		options.ChunkSize = DefaultChunkSize
	}

	return options
}
