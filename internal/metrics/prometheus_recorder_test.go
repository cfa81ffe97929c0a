package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("prep", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncFileOutcome(FileRendered)
	pr.IncFileOutcome(FileRendered)
	pr.IncFileOutcome(FileCopied)
	pr.IncDerivative("photos", DerivativeCreated)
	pr.IncBuildOutcome(BuildSuccess)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
	if got := counterValue(mfs, "bollard_files_total", "outcome", "rendered"); got != 2 {
		t.Fatalf("expected 2 rendered files, got %v", got)
	}
	if got := counterValue(mfs, "bollard_derivatives_total", "outcome", "created"); got != 1 {
		t.Fatalf("expected 1 created derivative, got %v", got)
	}
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) float64 {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func TestPrometheusRecorderWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildFailed)

	path := filepath.Join(t.TempDir(), "bollard.prom")
	if err := pr.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `bollard_build_outcomes_total{outcome="failed"} 1`) {
		t.Fatalf("unexpected textfile content:\n%s", data)
	}
}

func TestNilAndNoopRecorders(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncFileOutcome(FileFailed)
	pr.ObserveBuildDuration(time.Second)

	var r Recorder = NoopRecorder{}
	r.IncDerivative("x", DerivativeExisting)
	r.IncBuildOutcome(BuildCanceled)
}
