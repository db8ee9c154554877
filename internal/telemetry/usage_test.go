package telemetry

import "testing"

func TestUsageAccumulator(t *testing.T) {
	acc := NewUsageAccumulator()

	if got := acc.Snapshot(); got.TotalTokens != 0 {
		t.Errorf("Fresh accumulator reports %+v", got)
	}

	acc.Add(10, 5, 15)
	acc.Add(20, 10, 30)

	got := acc.Snapshot()
	if got.PromptTokens != 30 || got.CompletionTokens != 15 || got.TotalTokens != 45 {
		t.Errorf("Snapshot = %+v, want 30/15/45", got)
	}

	acc.Reset()
	if got := acc.Snapshot(); got.TotalTokens != 0 {
		t.Errorf("Reset left %+v", got)
	}
}

func TestMetricsCollectorCounters(t *testing.T) {
	m := NewMetricsCollector()

	m.IncrementCounter(MetricProviderCalls, 1)
	m.IncrementCounter(MetricProviderCalls, 2)

	if got := m.GetCounter(MetricProviderCalls); got != 3 {
		t.Errorf("GetCounter = %d, want 3", got)
	}
	if got := m.GetCounter(MetricCallFailure); got != 0 {
		t.Errorf("Unset counter = %d, want 0", got)
	}

	m.Reset()
	if got := m.GetCounter(MetricProviderCalls); got != 0 {
		t.Errorf("Counter after reset = %d, want 0", got)
	}
}
