package metrics

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Metrics collects per-run counters for png commands. Commands that load
// several files concurrently record into the same collector.
type Metrics struct {
	mu sync.RWMutex

	FilesReadTotal    int64
	FilesWrittenTotal int64
	BytesReadTotal    int64
	BytesWrittenTotal int64
	ChunksParsedTotal int64
	ParseFailedTotal  int64

	LoadDurationNs map[string]int64 // by path
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		LoadDurationNs: make(map[string]int64),
	}
}

// RecordLoad records a png read and parsed from storage
func (m *Metrics) RecordLoad(path string, bytes int64, chunks int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FilesReadTotal++
	m.BytesReadTotal += bytes
	m.ChunksParsedTotal += int64(chunks)
	m.LoadDurationNs[path] += duration.Nanoseconds()

	log.Debug().
		Str("path", path).
		Int64("bytes", bytes).
		Int("chunks", chunks).
		Dur("duration", duration).
		Msg("png loaded")
}

// RecordParseFailure records a png that was read but could not be parsed
func (m *Metrics) RecordParseFailure(path string, bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FilesReadTotal++
	m.BytesReadTotal += bytes
	m.ParseFailedTotal++
	m.LoadDurationNs[path] += duration.Nanoseconds()

	log.Debug().
		Str("path", path).
		Int64("bytes", bytes).
		Dur("duration", duration).
		Msg("png parse failed")
}

// RecordWrite records a png serialized back to storage
func (m *Metrics) RecordWrite(path string, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FilesWrittenTotal++
	m.BytesWrittenTotal += bytes

	log.Debug().
		Str("path", path).
		Int64("bytes", bytes).
		Msg("png written")
}

// Summary is a point-in-time copy of the counters.
type Summary struct {
	FilesReadTotal    int64
	FilesWrittenTotal int64
	BytesReadTotal    int64
	BytesWrittenTotal int64
	ChunksParsedTotal int64
	ParseFailedTotal  int64
	LoadDurationNs    map[string]int64
}

// Snapshot returns a copy of the counters that is safe to read while
// recording continues.
func (m *Metrics) Snapshot() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	durations := make(map[string]int64, len(m.LoadDurationNs))
	for path, ns := range m.LoadDurationNs {
		durations[path] = ns
	}

	return Summary{
		FilesReadTotal:    m.FilesReadTotal,
		FilesWrittenTotal: m.FilesWrittenTotal,
		BytesReadTotal:    m.BytesReadTotal,
		BytesWrittenTotal: m.BytesWrittenTotal,
		ChunksParsedTotal: m.ChunksParsedTotal,
		ParseFailedTotal:  m.ParseFailedTotal,
		LoadDurationNs:    durations,
	}
}

// LogSummary logs a summary of current metrics
func (m *Metrics) LogSummary() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalLoadNs int64
	for _, ns := range m.LoadDurationNs {
		totalLoadNs += ns
	}

	log.Debug().
		Int64("files_read", m.FilesReadTotal).
		Int64("files_written", m.FilesWrittenTotal).
		Int64("bytes_read", m.BytesReadTotal).
		Int64("bytes_written", m.BytesWrittenTotal).
		Int64("chunks_parsed", m.ChunksParsedTotal).
		Int64("parse_failed", m.ParseFailedTotal).
		Dur("load_time", time.Duration(totalLoadNs)).
		Msg("metrics summary")
}

// Global metrics instance
var GlobalMetrics = NewMetrics()

// Convenience functions for global metrics
func RecordLoad(path string, bytes int64, chunks int, duration time.Duration) {
	GlobalMetrics.RecordLoad(path, bytes, chunks, duration)
}

func RecordParseFailure(path string, bytes int64, duration time.Duration) {
	GlobalMetrics.RecordParseFailure(path, bytes, duration)
}

func RecordWrite(path string, bytes int64) {
	GlobalMetrics.RecordWrite(path, bytes)
}

func LogMetricsSummary() {
	GlobalMetrics.LogSummary()
}
