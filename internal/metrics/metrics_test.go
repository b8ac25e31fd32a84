package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FramesTotal.Inc()
	m.RendersCoalesced.Inc()
	m.FrameDur.Observe(0.002)
	m.CandlesAppended.Inc()
	m.OutOfOrderRejected.Inc()
	m.SourceEmits.WithLabelValues("randomwalk").Inc()
	m.ActiveSubscribers.Set(2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}

	want := map[string]bool{
		"chart_frames_total":               false,
		"chart_renders_coalesced_total":    false,
		"chart_frame_duration_seconds":     false,
		"chart_candles_appended_total":     false,
		"chart_out_of_order_rejected_total": false,
		"chart_source_emits_total":         false,
		"chart_source_subscribers":         false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())
	if a == b {
		t.Fatal("expected distinct Metrics instances")
	}
	a.FramesTotal.Inc()
	b.FramesTotal.Inc()
}
