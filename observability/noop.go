package observability

import "time"

// NoopLogger discards everything. Statistics/logging bookkeeping should be
// elidable when a caller does not supply a real collaborator; NoopLogger is
// that default.
type NoopLogger struct{}

// NewNoopLogger returns the default no-op Logger.
func NewNoopLogger() Logger { return NoopLogger{} }

func (NoopLogger) Debug(string, map[string]interface{}) {}
func (NoopLogger) Info(string, map[string]interface{})  {}
func (NoopLogger) Warn(string, map[string]interface{})  {}
func (NoopLogger) Error(string, map[string]interface{}) {}
func (n NoopLogger) With(map[string]interface{}) Logger { return n }

// NoopMetricsClient discards everything.
type NoopMetricsClient struct{}

// NewNoopMetricsClient returns the default no-op MetricsClient.
func NewNoopMetricsClient() MetricsClient { return NoopMetricsClient{} }

func (NoopMetricsClient) RecordCounter(string, float64, map[string]string)               {}
func (NoopMetricsClient) RecordGauge(string, float64, map[string]string)                 {}
func (NoopMetricsClient) RecordHistogram(string, float64, map[string]string)             {}
func (NoopMetricsClient) RecordCacheOperation(string, bool, time.Duration)                {}
