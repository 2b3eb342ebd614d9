package arraygo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement it to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSave is called after each container save.
	RecordSave(duration time.Duration, bytes int64, err error)

	// RecordLoad is called after each container load.
	RecordLoad(duration time.Duration, bytes int64, err error)

	// RecordDelete is called after each container delete.
	RecordDelete(duration time.Duration, err error)

	// RecordResample is called after each batch interpolation run.
	// count is the number of target series attempted.
	RecordResample(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSave(time.Duration, int64, error)   {}
func (NoopMetricsCollector) RecordLoad(time.Duration, int64, error)   {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)        {}
func (NoopMetricsCollector) RecordResample(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging without external dependencies.
type BasicMetricsCollector struct {
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	SaveBytes       atomic.Int64
	SaveTotalNanos  atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadBytes       atomic.Int64
	LoadTotalNanos  atomic.Int64
	DeleteCount     atomic.Int64
	DeleteErrors    atomic.Int64
	ResampleCount   atomic.Int64
	ResampleTargets atomic.Int64
	ResampleErrors  atomic.Int64
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(duration time.Duration, bytes int64, err error) {
	b.SaveCount.Add(1)
	b.SaveBytes.Add(bytes)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, bytes int64, err error) {
	b.LoadCount.Add(1)
	b.LoadBytes.Add(bytes)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordResample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResample(count int, duration time.Duration, err error) {
	b.ResampleCount.Add(1)
	b.ResampleTargets.Add(int64(count))
	if err != nil {
		b.ResampleErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		SaveBytes:       b.SaveBytes.Load(),
		SaveAvgNanos:    avgNanos(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadBytes:       b.LoadBytes.Load(),
		LoadAvgNanos:    avgNanos(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		ResampleCount:   b.ResampleCount.Load(),
		ResampleTargets: b.ResampleTargets.Load(),
		ResampleErrors:  b.ResampleErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SaveCount       int64
	SaveErrors      int64
	SaveBytes       int64
	SaveAvgNanos    int64
	LoadCount       int64
	LoadErrors      int64
	LoadBytes       int64
	LoadAvgNanos    int64
	DeleteCount     int64
	DeleteErrors    int64
	ResampleCount   int64
	ResampleTargets int64
	ResampleErrors  int64
}
