package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/localrivet/condense/internal/prompt"
	"github.com/localrivet/condense/internal/telemetry"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// StatusHealthy indicates a component is fully operational
	StatusHealthy HealthStatus = "healthy"

	// StatusUnhealthy indicates a component is not operational
	StatusUnhealthy HealthStatus = "unhealthy"

	healthCheckTimeout = 5 * time.Second
)

// HealthReport contains information about the current health of the engine
type HealthReport struct {
	Status        HealthStatus     `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Provider      string           `json:"provider"`
	ProviderAlive bool             `json:"provider_alive"`
	CacheStats    map[string]int64 `json:"cache_stats"`
	SuccessRate   float64          `json:"success_rate"`
	TotalCalls    int64            `json:"total_calls"`
	Usage         telemetry.Usage  `json:"usage"`
}

// CheckProviderHealth tests whether the engine's provider answers a tiny
// completion request within the health-check timeout.
func (e *Engine) CheckProviderHealth(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	_, err := e.provider.Complete(checkCtx, "", []prompt.Message{
		{Role: "user", Content: "This is a brief health check. Reply with one word."},
	})
	return err == nil
}

// CreateHealthReport generates a health report for the engine
func CreateHealthReport(ctx context.Context, engine *Engine) (*HealthReport, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}

	m := engine.Metrics()
	alive := engine.CheckProviderHealth(ctx)

	status := StatusHealthy
	if !alive {
		status = StatusUnhealthy
	}

	totalSuccess := m.GetCounter(telemetry.MetricCallSuccess)
	totalFailure := m.GetCounter(telemetry.MetricCallFailure)
	totalCalls := totalSuccess + totalFailure

	var successRate float64
	if totalCalls > 0 {
		successRate = float64(totalSuccess) / float64(totalCalls) * 100.0
	}

	cacheStats := map[string]int64{
		"hits":   m.GetCounter(telemetry.MetricCacheHits),
		"misses": m.GetCounter(telemetry.MetricCacheMisses),
	}

	return &HealthReport{
		Status:        status,
		Timestamp:     time.Now(),
		Provider:      engine.provider.Name(),
		ProviderAlive: alive,
		CacheStats:    cacheStats,
		SuccessRate:   successRate,
		TotalCalls:    totalCalls,
		Usage:         engine.Usage().Snapshot(),
	}, nil
}

// CreateHealthReportJSON generates a JSON health report for the engine
func CreateHealthReportJSON(ctx context.Context, engine *Engine) (string, error) {
	report, err := CreateHealthReport(ctx, engine)
	if err != nil {
		return "", err
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal health report: %w", err)
	}

	return string(reportJSON), nil
}
