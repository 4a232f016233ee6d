package lang

import (
	"context"
	"strconv"

	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans created by this package.
const TracerName = "github.com/ardnew/vscript/lang"

// Span names.
const (
	SpanParse    = "vscript.parse"
	SpanEvaluate = "vscript.evaluate"
)

// maxSourceAttr bounds the source text recorded on spans.
const maxSourceAttr = 256

func (c config) startSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	tracer := c.tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// sourceAttrs identifies src on a span. The text is truncated; the hash is
// of the complete source.
func sourceAttrs(src string) []attribute.KeyValue {
	hash := strconv.FormatUint(xxh3.HashString(src), 16)

	if len(src) > maxSourceAttr {
		src = src[:maxSourceAttr]
	}

	return []attribute.KeyValue{
		attribute.String("vscript.source", src),
		attribute.String("vscript.source.hash", hash),
	}
}
