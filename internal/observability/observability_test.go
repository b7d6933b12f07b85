//go:build !gcloud

package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/logging"
)

func TestInitWithoutCollector(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	var buf bytes.Buffer
	obs, err := Init(context.Background(), Config{
		ServiceInfo:   logging.ServiceInfo{Name: "demand", Version: "test"},
		Environment:   logging.EnvDev,
		DefaultModule: logging.Module("forecast"),
		LogOutput:     &buf,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	obs.Logger().Info("ready")
	if !strings.Contains(buf.String(), `"msg":"ready"`) {
		t.Errorf("log output = %s, want a JSON record for ready", buf.String())
	}

	_, span := otel.Tracer("test").Start(context.Background(), "probe")
	if !span.SpanContext().IsValid() {
		t.Error("tracer provider not installed")
	}
	span.End()

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
