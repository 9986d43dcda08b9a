package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for conversion operations
	TracerName = "github.com/willibrandon/vcproj2cmake"
)

// Common attribute keys
const (
	AttrProjectPath = attribute.Key("vcproj.project.path")
	AttrParser      = attribute.Key("vcproj.parser")
	AttrTarget      = attribute.Key("vcproj.target")
	AttrOutputPath  = attribute.Key("cmake.output.path")
	AttrResult      = attribute.Key("cmake.commit.result")
	AttrOperation   = attribute.Key("vcproj.operation")
)

// StartConvertSpan starts the span covering one project conversion
func StartConvertSpan(ctx context.Context, projectPath string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "convert.project",
		trace.WithAttributes(
			AttrProjectPath.String(projectPath),
			AttrOperation.String("convert"),
		),
	)
}

// StartParseSpan starts a span for reading a project file into the model
func StartParseSpan(ctx context.Context, projectPath, parser string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "parse",
		trace.WithAttributes(
			AttrProjectPath.String(projectPath),
			AttrParser.String(parser),
			AttrOperation.String("parse"),
		),
	)
}

// StartGenerateSpan starts a span for rendering one target
func StartGenerateSpan(ctx context.Context, target string, configCount int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "generate",
		trace.WithAttributes(
			AttrTarget.String(target),
			attribute.Int("vcproj.config.count", configCount),
			AttrOperation.String("generate"),
		),
	)
}

// StartCommitSpan starts a span for promoting rendered output
func StartCommitSpan(ctx context.Context, outputPath string, size int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "commit",
		trace.WithAttributes(
			AttrOutputPath.String(outputPath),
			attribute.Int("cmake.output.size", size),
			AttrOperation.String("commit"),
		),
	)
}

// RecordDiagnostic adds a diagnostic event to the current span
func RecordDiagnostic(ctx context.Context, kind, detail string) {
	span := SpanFromContext(ctx)
	span.AddEvent("diagnostic",
		trace.WithAttributes(
			attribute.String("diagnostic.kind", kind),
			attribute.String("diagnostic.detail", detail),
		),
	)
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
