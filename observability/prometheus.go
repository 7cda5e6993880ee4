package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetricsClient implements MetricsClient using client_golang.
// Metric collectors are created lazily on first use and cached by name, the
// same approach the teacher's PrometheusMetricsClient takes, since the set
// of metric names a caller will emit isn't known up front.
type PrometheusMetricsClient struct {
	namespace string
	subsystem string

	mu         sync.RWMutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetricsClient creates a client registering metrics under
// namespace/subsystem with the default Prometheus registry.
func NewPrometheusMetricsClient(namespace, subsystem string) *PrometheusMetricsClient {
	return &PrometheusMetricsClient{
		namespace:  namespace,
		subsystem:  subsystem,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (c *PrometheusMetricsClient) labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	return names
}

func (c *PrometheusMetricsClient) getOrCreateCounter(name string, labels map[string]string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.counters[name]; ok {
		return cv
	}
	cv := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      name,
	}, c.labelNames(labels))
	c.counters[name] = cv
	return cv
}

func (c *PrometheusMetricsClient) getOrCreateGauge(name string, labels map[string]string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gv, ok := c.gauges[name]; ok {
		return gv
	}
	gv := promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      name,
	}, c.labelNames(labels))
	c.gauges[name] = gv
	return gv
}

func (c *PrometheusMetricsClient) getOrCreateHistogram(name string, labels map[string]string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hv, ok := c.histograms[name]; ok {
		return hv
	}
	hv := promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      name,
		Buckets:   prometheus.DefBuckets,
	}, c.labelNames(labels))
	c.histograms[name] = hv
	return hv
}

// RecordCounter implements MetricsClient.
func (c *PrometheusMetricsClient) RecordCounter(name string, value float64, labels map[string]string) {
	c.getOrCreateCounter(name, labels).With(labels).Add(value)
}

// RecordGauge implements MetricsClient.
func (c *PrometheusMetricsClient) RecordGauge(name string, value float64, labels map[string]string) {
	c.getOrCreateGauge(name, labels).With(labels).Set(value)
}

// RecordHistogram implements MetricsClient.
func (c *PrometheusMetricsClient) RecordHistogram(name string, value float64, labels map[string]string) {
	c.getOrCreateHistogram(name, labels).With(labels).Observe(value)
}

// RecordCacheOperation implements MetricsClient.
func (c *PrometheusMetricsClient) RecordCacheOperation(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	labels := map[string]string{"operation": operation, "status": status}
	c.getOrCreateCounter("cache_operations_total", labels).With(labels).Inc()
	durLabels := map[string]string{"operation": operation}
	c.getOrCreateHistogram("cache_operation_duration_seconds", durLabels).With(durLabels).Observe(duration.Seconds())
}
