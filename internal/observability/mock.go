package observability

import "time"

// MockMetricsRegistry is a no-op implementation of MetricsRegistry for testing.
type MockMetricsRegistry struct{}

func (m *MockMetricsRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (m *MockMetricsRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (m *MockMetricsRegistry) IncrementReportsParsed(outcome string)                                {}
func (m *MockMetricsRegistry) AddRowsRejected(n int)                                                {}
func (m *MockMetricsRegistry) AddAssetsSynthesized(n int)                                           {}
func (m *MockMetricsRegistry) IncrementThumbnailFetch(outcome string)                               {}
