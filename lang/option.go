package lang

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/ardnew/vscript/log"
)

// DefaultMaxDepth is the default limit on expression nesting.
const DefaultMaxDepth = 256

// Option configures parsing and evaluation.
type Option func(*config)

type config struct {
	clock    Clock
	tracer   trace.Tracer
	logger   log.Logger
	maxDepth int
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithLogger sets the logger used for trace-level diagnostics. The zero
// [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock binds the clock read by the date and time built-ins.
// Without it, an equation binds the process-wide provider in effect when the
// equation is constructed (see [SetClockProvider]).
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithTracer sets the OpenTelemetry tracer used for parse and evaluate spans.
// Without it, the tracer is taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) { c.tracer = tracer }
}

// WithMaxDepth limits how deeply expressions may nest. Values less than 1
// select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}
