package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupTracing_None(t *testing.T) {
	ctx := context.Background()
	tp, err := SetupTracing(ctx, DefaultTracerConfig())
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()

	_, span := StartConvertSpan(ctx, "app.vcproj")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Error("Span context should be valid")
	}
}

func TestSetupTracing_StdoutWritesSpans(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	config := DefaultTracerConfig()
	config.ExporterType = ExporterStdout
	config.Writer = &buf

	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	tp, err := SetupTracing(ctx, config)
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}
	_, span := StartCommitSpan(ctx, "CMakeLists.txt", 42)
	EndSpanWithError(span, nil)
	if err := ShutdownTracing(ctx, tp); err != nil {
		t.Errorf("ShutdownTracing() failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"Name": "commit"`) {
		t.Errorf("exported spans missing commit span:\n%s", buf.String())
	}
}

func TestSetupTracing_InvalidExporter(t *testing.T) {
	config := DefaultTracerConfig()
	config.ExporterType = "zipkin"

	_, err := SetupTracing(context.Background(), config)
	if err == nil {
		t.Fatal("SetupTracing with invalid exporter should return error")
	}
	if !strings.Contains(err.Error(), "zipkin") {
		t.Errorf("error = %v, want it to name the exporter", err)
	}
}

func TestDefaultTracerConfig(t *testing.T) {
	config := DefaultTracerConfig()

	if config.ServiceName != "vcproj2cmake" {
		t.Errorf("ServiceName = %s, want vcproj2cmake", config.ServiceName)
	}
	if config.ExporterType != ExporterNone {
		t.Errorf("ExporterType = %s, want none", config.ExporterType)
	}
}

func TestConversionSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx := context.Background()
	ctx, convert := StartConvertSpan(ctx, "/src/app.vcxproj")
	pctx, parse := StartParseSpan(ctx, "/src/app.vcxproj", "Visual Studio 10")
	RecordDiagnostic(pctx, "unknown_element", "Foo")
	EndSpanWithError(parse, nil)
	_, gen := StartGenerateSpan(ctx, "app", 2)
	EndSpanWithError(gen, errors.New("unsupported type"))
	_, commit := StartCommitSpan(ctx, "/src/CMakeLists.txt", 128)
	EndSpanWithError(commit, nil)
	EndSpanWithError(convert, nil)

	spans := recorder.Ended()
	if len(spans) != 4 {
		t.Fatalf("ended spans = %d, want 4", len(spans))
	}

	names := []string{"parse", "generate", "commit", "convert.project"}
	for i, want := range names {
		if spans[i].Name() != want {
			t.Errorf("span %d = %s, want %s", i, spans[i].Name(), want)
		}
	}
	if len(spans[0].Events()) != 1 || spans[0].Events()[0].Name != "diagnostic" {
		t.Errorf("parse span events = %+v", spans[0].Events())
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("generate span status = %v, want Error", spans[1].Status().Code)
	}
	if spans[0].Parent().SpanID() != spans[3].SpanContext().SpanID() {
		t.Error("parse span should be a child of convert.project")
	}
}
