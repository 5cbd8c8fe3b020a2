// Package telemetry provides metrics collection and reporting
// for monitoring the ragserve service.
package telemetry

import (
	"sync"
	"time"
)

// MetricsCollector provides a thread-safe interface for collecting
// application metrics for monitoring and troubleshooting.
type MetricsCollector struct {
	counters   map[string]int64
	gauges     map[string]float64
	timers     map[string][]time.Duration
	latestTime map[string]time.Time
	mu         sync.RWMutex
}

// Metric names used across the service
const (
	// Provider call counts
	MetricEmbeddingCalls     = "provider.embedding.calls"
	MetricEmbeddingFailures  = "provider.embedding.failures"
	MetricGenerationCalls    = "provider.generation.calls"
	MetricGenerationFailures = "provider.generation.failures"

	// Store activity
	MetricDocumentsIngested = "store.documents_ingested"
	MetricSnapshotWrites    = "store.snapshot_writes"

	// HTTP activity
	MetricChatRequests   = "http.chat.requests"
	MetricIngestRequests = "http.ingest.requests"

	// Response times
	MetricChatDuration   = "http.chat.duration"
	MetricIngestDuration = "http.ingest.duration"

	// Timestamps
	MetricLastIngest = "store.last_ingest"
	MetricLastChat   = "http.last_chat"
)

// NewMetricsCollector creates a new MetricsCollector instance
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		timers:     make(map[string][]time.Duration),
		latestTime: make(map[string]time.Time),
	}
}

// IncrementCounter increments a named counter by the specified amount
func (m *MetricsCollector) IncrementCounter(name string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += amount
}

// SetGauge sets a named gauge to the specified value
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gauges[name] = value
}

// RecordTimer records a duration for the specified timer
func (m *MetricsCollector) RecordTimer(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timers[name] = append(m.timers[name], duration)

	// Limit the number of stored durations to avoid unbounded growth
	if len(m.timers[name]) > 100 {
		m.timers[name] = m.timers[name][1:]
	}
}

// RecordTimestamp records the current time for the specified event
func (m *MetricsCollector) RecordTimestamp(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latestTime[name] = time.Now()
}

// GetCounter retrieves the current value of a counter
func (m *MetricsCollector) GetCounter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counters[name]
}

// GetGauge retrieves the current value of a gauge
func (m *MetricsCollector) GetGauge(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.gauges[name]
}

// GetTimerAverage calculates the average duration for a timer
func (m *MetricsCollector) GetTimerAverage(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return timerAverage(m.timers[name])
}

func timerAverage(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	return total / time.Duration(len(durations))
}

// GetTimeSince calculates the time elapsed since a recorded timestamp
func (m *MetricsCollector) GetTimeSince(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	timestamp, exists := m.latestTime[name]
	if !exists {
		return 0
	}

	return time.Since(timestamp)
}

// Snapshot returns a point-in-time view of all collected metrics, suitable
// for serialization in a stats endpoint.
func (m *MetricsCollector) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, value := range m.counters {
		counters[name] = value
	}

	gauges := make(map[string]float64, len(m.gauges))
	for name, value := range m.gauges {
		gauges[name] = value
	}

	timers := make(map[string]interface{}, len(m.timers))
	for name, durations := range m.timers {
		timers[name] = map[string]interface{}{
			"avg_ms": float64(timerAverage(durations)) / float64(time.Millisecond),
			"count":  len(durations),
		}
	}

	timestamps := make(map[string]string, len(m.latestTime))
	for name, ts := range m.latestTime {
		timestamps[name] = ts.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"counters":   counters,
		"gauges":     gauges,
		"timers":     timers,
		"timestamps": timestamps,
	}
}

// Reset clears all collected metrics
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters = make(map[string]int64)
	m.gauges = make(map[string]float64)
	m.timers = make(map[string][]time.Duration)
	m.latestTime = make(map[string]time.Time)
}
