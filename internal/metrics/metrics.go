package metrics

import (
	"sync"
	"time"
)

// Metrics tracks pipeline counters for the dashboard health endpoint.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	HeadlinesFetched   int64
	DuplicatesFiltered int64
	SlidesRendered     int64
	CarouselsPosted    int64
	RunsSkipped        int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementHeadlinesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HeadlinesFetched++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) AddSlidesRendered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlidesRendered += int64(n)
}

func (m *Metrics) IncrementCarouselsPosted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CarouselsPosted++
}

func (m *Metrics) IncrementRunsSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsSkipped++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"headlines_fetched":    m.HeadlinesFetched,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"slides_rendered":      m.SlidesRendered,
		"carousels_posted":     m.CarouselsPosted,
		"runs_skipped":         m.RunsSkipped,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
