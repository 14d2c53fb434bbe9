package geocell

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see package promcollector for a ready-made adapter.
type MetricsCollector interface {
	// RecordAdd is called after each AddEntry that reached the coverer.
	// cells is the covering size, err is nil if successful.
	RecordAdd(duration time.Duration, cells int, err error)

	// RecordDelete is called after each DeleteEntry on a non-null row.
	RecordDelete(duration time.Duration, err error)

	// RecordReplace is called after each ReplaceEntryNoKeyChange on a non-null row.
	RecordReplace(duration time.Duration, err error)

	// RecordSearch is called after each BeginSearch.
	// levels is the number of cell levels probed, matched reports a hit.
	RecordSearch(duration time.Duration, levels int, matched bool)

	// RecordBuild is called after each bulk Build.
	RecordBuild(rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, int, error)   {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)     {}
func (NoopMetricsCollector) RecordReplace(time.Duration, error)    {}
func (NoopMetricsCollector) RecordSearch(time.Duration, int, bool) {}
func (NoopMetricsCollector) RecordBuild(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	AddCount      atomic.Int64
	AddErrors     atomic.Int64
	AddCells      atomic.Int64
	AddTotalNanos atomic.Int64
	DeleteCount   atomic.Int64
	DeleteErrors  atomic.Int64
	ReplaceCount  atomic.Int64
	ReplaceErrors atomic.Int64
	SearchCount   atomic.Int64
	SearchMatches atomic.Int64
	SearchLevels  atomic.Int64
	BuildCount    atomic.Int64
	BuildRows     atomic.Int64
	BuildErrors   atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, cells int, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
		return
	}
	b.AddCells.Add(int64(cells))
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(_ time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordReplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReplace(_ time.Duration, err error) {
	b.ReplaceCount.Add(1)
	if err != nil {
		b.ReplaceErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_ time.Duration, levels int, matched bool) {
	b.SearchCount.Add(1)
	b.SearchLevels.Add(int64(levels))
	if matched {
		b.SearchMatches.Add(1)
	}
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(rows int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildRows.Add(int64(rows))
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// MetricsStats is a point-in-time copy of BasicMetricsCollector counters.
type MetricsStats struct {
	AddCount      int64
	AddErrors     int64
	AddAvgNanos   int64
	AvgCells      float64
	DeleteCount   int64
	DeleteErrors  int64
	ReplaceCount  int64
	ReplaceErrors int64
	SearchCount   int64
	SearchMatches int64
	BuildRows     int64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	s := MetricsStats{
		AddCount:      b.AddCount.Load(),
		AddErrors:     b.AddErrors.Load(),
		DeleteCount:   b.DeleteCount.Load(),
		DeleteErrors:  b.DeleteErrors.Load(),
		ReplaceCount:  b.ReplaceCount.Load(),
		ReplaceErrors: b.ReplaceErrors.Load(),
		SearchCount:   b.SearchCount.Load(),
		SearchMatches: b.SearchMatches.Load(),
		BuildRows:     b.BuildRows.Load(),
	}
	if s.AddCount > 0 {
		s.AddAvgNanos = b.AddTotalNanos.Load() / s.AddCount
	}
	if ok := s.AddCount - s.AddErrors; ok > 0 {
		s.AvgCells = float64(b.AddCells.Load()) / float64(ok)
	}
	return s
}
