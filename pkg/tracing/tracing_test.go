package tracing

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), DefaultConfig("cardinventory"))
	if err != nil {
		t.Fatalf("InitTracer(disabled) returned error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown should not be nil when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown(disabled) returned error: %v", err)
	}
}

func TestInitTracer_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// Export is batched and asynchronous, so an unreachable collector does not
	// fail initialization.
	cfg := Config{
		ServiceName:    "cardinventory",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "127.0.0.1:0",
		SampleRate:     0.5,
		Enabled:        true,
	}

	shutdown, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer(enabled) returned error: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("expected *sdktrace.TracerProvider, got %T", otel.GetTracerProvider())
	}
	if err := shutdown(context.Background()); err != nil {
		t.Logf("shutdown with unreachable collector: %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.5, "AlwaysOnSampler"},
		{0.0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		desc := Sampler(tt.rate).Description()
		if !strings.HasPrefix(desc, "ParentBased{") {
			t.Errorf("Sampler(%v) = %q, want parent-based", tt.rate, desc)
		}
		if !strings.Contains(desc, "root:"+tt.want) {
			t.Errorf("Sampler(%v) = %q, want root %s", tt.rate, desc, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("cardinventory")

	if cfg.ServiceName != "cardinventory" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "cardinventory")
	}
	if cfg.Enabled {
		t.Error("default config should be disabled")
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %f, want 1.0", cfg.SampleRate)
	}
	if cfg.OTLPEndpoint != "localhost:4318" {
		t.Errorf("OTLPEndpoint = %q, want %q", cfg.OTLPEndpoint, "localhost:4318")
	}
}

func TestNewResource_ServiceIdentity(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "service.name=overridden,team=cards")

	res, err := newResource(context.Background(), Config{
		ServiceName:    "cardinventory",
		ServiceVersion: "1.2.3",
		Environment:    "staging",
	})
	if err != nil {
		t.Fatalf("newResource returned error: %v", err)
	}

	want := map[string]string{
		string(semconv.ServiceNameKey):           "cardinventory",
		string(semconv.ServiceVersionKey):        "1.2.3",
		string(semconv.DeploymentEnvironmentKey): "staging",
		"team":                                   "cards",
	}
	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("resource[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestExporterOptions(t *testing.T) {
	if n := len(exporterOptions("collector:4318")); n != 2 {
		t.Errorf("host:port options = %d, want endpoint + insecure", n)
	}
	if n := len(exporterOptions("https://otel.example.com/v1/traces")); n != 1 {
		t.Errorf("URL options = %d, want a single endpoint URL", n)
	}
}
