package telemetry_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/importmaps/internal/adapters/telemetry"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp)

	_, span := tracer.Start(context.Background(), "generateBundle")
	span.SetAttribute("importmaps.command", "build")
	span.SetAttribute("importmaps.bindings", 3)
	span.SetAttribute("importmaps.names", []string{"react", "shared-lib"})
	span.SetAttribute("importmaps.other", struct{}{})
	span.RecordError(nil)
	span.RecordError(errors.New("emit failed"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]

	assert.Equal(t, "generateBundle", got.Name())
	assert.Equal(t, telemetry.InstrumentationName, got.InstrumentationScope().Name)
	assert.Contains(t, got.Attributes(), attribute.String("importmaps.command", "build"))
	assert.Contains(t, got.Attributes(), attribute.Int("importmaps.bindings", 3))
	assert.Contains(t, got.Attributes(), attribute.StringSlice("importmaps.names", []string{"react", "shared-lib"}))
	assert.Contains(t, got.Attributes(), attribute.String("importmaps.other", "{}"))
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "emit failed", got.Status().Description)
	require.Len(t, got.Events(), 1)
}

func TestProvider_AttachLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	provider := telemetry.NewProvider()
	provider.AttachLogger(logger)
	tracer := provider.Tracer()

	gomock.InOrder(
		logger.EXPECT().Info(gomock.Cond(func(msg string) bool {
			return regexp.MustCompile(`^\[importmaps:trace\] buildStart took \S+$`).MatchString(msg)
		})),
		logger.EXPECT().Warn(gomock.Cond(func(msg string) bool {
			return regexp.MustCompile(`^\[importmaps:trace\] generateBundle failed after \S+: boom$`).MatchString(msg)
		})),
	)

	_, span := tracer.Start(context.Background(), "buildStart")
	span.End()
	_, span = tracer.Start(context.Background(), "generateBundle")
	span.RecordError(errors.New("boom"))
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}
