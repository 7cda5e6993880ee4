package observability

import "time"

// MetricsClient defines the interface for metrics collection. objcache only
// ever needs counters and gauges; the richer histogram/timer methods exist
// so the same interface can be satisfied by a host application's existing
// metrics client (as the teacher's pkg/observability.MetricsClient is).
type MetricsClient interface {
	RecordCounter(name string, value float64, labels map[string]string)
	RecordGauge(name string, value float64, labels map[string]string)
	RecordHistogram(name string, value float64, labels map[string]string)
	RecordCacheOperation(operation string, success bool, duration time.Duration)
}
