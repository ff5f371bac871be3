package telemetry

import (
	"context"
	"testing"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background(), ServiceName)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSampleRatio(t *testing.T) {
	tests := map[string]float64{"": 1, "0.25": 0.25, "abc": 1, "2": 1, "0": 0}
	for raw, want := range tests {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", raw)
		if got := sampleRatio(); got != want {
			t.Errorf("sampleRatio(%q) = %v, want %v", raw, got, want)
		}
	}
}
