package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/zackdaniels09/autopitch-ai/adapters/metrics"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	c := metrics.NewWithRegistry(reg)

	if c == nil {
		t.Fatal("expected non-nil collector")
	}

	c.RequestsTotal.WithLabelValues("/generate", "200").Inc()
	c.QuotaExceeded.Inc()
	c.QuotaExceeded.Inc()
	c.EstimatedSpend.Add(900)

	if got := testutil.ToFloat64(c.QuotaExceeded); got != 2 {
		t.Errorf("quota_exceeded_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.EstimatedSpend); got != 900 {
		t.Errorf("estimated_spend_micro_total = %v, want 900", got)
	}
	if got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues("/generate", "200")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
}

func TestNewWithRegistry_SeparateRegistriesIndependent(t *testing.T) {
	c1 := metrics.NewWithRegistry(prometheus.NewRegistry())
	c2 := metrics.NewWithRegistry(prometheus.NewRegistry())

	c1.BurstLimited.Inc()

	if got := testutil.ToFloat64(c2.BurstLimited); got != 0 {
		t.Errorf("collector 2 burst_limited_total = %v, want 0", got)
	}
}
