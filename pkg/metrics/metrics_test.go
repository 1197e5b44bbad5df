package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFromConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		if r := FromConfig(Config{Enabled: false}); r != nil {
			t.Error("disabled config should yield nil registry")
		}
	})

	t.Run("defaults map to DefaultRegistry", func(t *testing.T) {
		if r := FromConfig(Config{Enabled: true}); r != DefaultRegistry {
			t.Error("expected DefaultRegistry")
		}
	})

	t.Run("custom namespace", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		r := FromConfig(Config{Enabled: true, Registry: reg, Namespace: "myapp"})
		r.TasksDropped.WithLabelValues("d").Inc()

		n, err := testutil.GatherAndCount(reg, "myapp_dispatch_tasks_dropped_total")
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("got %d series, want 1", n)
		}
	})
}

func TestNewRegistryReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewRegistry(reg)
	second := NewRegistry(reg)

	first.TasksExecuted.WithLabelValues("pool").Add(2)
	second.TasksExecuted.WithLabelValues("pool").Inc()

	if got := testutil.ToFloat64(first.TasksExecuted.WithLabelValues("pool")); got != 3 {
		t.Errorf("got %v, want 3", got)
	}
}

func TestConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := FromConfig(Config{
		Enabled:  true,
		Registry: reg,
		Labels:   prometheus.Labels{"version": "1.0"},
	})
	r.WorkerPoolSize.WithLabelValues("p").Set(4)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "firengo_workerpool_size" {
			continue
		}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			if lp.GetName() == "version" && lp.GetValue() == "1.0" {
				found = true
			}
		}
	}
	if !found {
		t.Error("const label not applied")
	}
}
