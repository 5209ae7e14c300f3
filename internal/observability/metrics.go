package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// Metrics is a small Prometheus-text registry. Every method is safe on a nil receiver so callers
// can use Current() unconditionally.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	generatorCalls   *CounterVec
	generatorLatency *HistogramVec
	sessionsStarted  *CounterVec
	sessionsEnded    *CounterVec
	archiveOutcomes  *CounterVec

	sessionsByStatus *GaugeVec
	archiveBacklog   *GaugeVec
	pgStats          *GaugeVec
}

var (
	initMu   sync.Mutex
	instance *Metrics
)

func Current() *Metrics {
	initMu.Lock()
	defer initMu.Unlock()
	return instance
}

// Init builds the process-wide registry. With enabled=false it returns nil and Current stays nil.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		instance = newMetrics()
	}
	return instance
}

func newMetrics() *Metrics {
	latency := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	return &Metrics{
		apiRequests: NewCounterVec("aq_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("aq_api_request_duration_seconds", "API request latency in seconds.", []string{"method", "route"}, latency),
		apiInflight: NewGauge("aq_api_inflight_requests", "In-flight API requests."),

		generatorCalls:   NewCounterVec("aq_generator_calls_total", "Question generator calls by outcome.", []string{"outcome"}),
		generatorLatency: NewHistogramVec("aq_generator_duration_seconds", "Question generator latency in seconds.", []string{"outcome"}, latency),
		sessionsStarted:  NewCounterVec("aq_sessions_started_total", "Start calls by result (created|resumed).", []string{"result"}),
		sessionsEnded:    NewCounterVec("aq_sessions_ended_total", "Sessions leaving active, by status and reason.", []string{"status", "reason"}),
		archiveOutcomes:  NewCounterVec("aq_archive_attempts_total", "Transcript archive attempts by outcome.", []string{"outcome"}),

		sessionsByStatus: NewGaugeVec("aq_sessions", "Stored sessions by status.", []string{"status"}),
		archiveBacklog:   NewGaugeVec("aq_archive_outbox_rows", "Archive outbox rows by status.", []string{"status"}),
		pgStats:          NewGaugeVec("aq_db_pool", "database/sql pool statistics.", []string{"stat"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.generatorCalls, m.generatorLatency,
		m.sessionsStarted, m.sessionsEnded, m.archiveOutcomes,
		m.sessionsByStatus, m.archiveBacklog, m.pgStats,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// ObserveGenerator records one generator call; outcome is question, stop, timeout or error.
func (m *Metrics) ObserveGenerator(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.generatorCalls.Inc(outcome)
	m.generatorLatency.Observe(dur.Seconds(), outcome)
}

func (m *Metrics) IncSessionStarted(resumed bool) {
	if m == nil {
		return
	}
	if resumed {
		m.sessionsStarted.Inc("resumed")
		return
	}
	m.sessionsStarted.Inc("created")
}

func (m *Metrics) IncSessionEnded(status, reason string) {
	if m == nil {
		return
	}
	m.sessionsEnded.Inc(status, reason)
}

// IncArchive records an archive attempt; outcome is done, retry or dead.
func (m *Metrics) IncArchive(outcome string) {
	if m == nil {
		return
	}
	m.archiveOutcomes.Inc(outcome)
}

// Collect refreshes the store-derived gauges once.
func (m *Metrics) Collect(ctx context.Context, db *gorm.DB) error {
	if m == nil || db == nil {
		return nil
	}
	type row struct {
		Status string
		N      int64
	}
	var sessions []row
	if err := db.WithContext(ctx).Model(&types.AdaptiveSession{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&sessions).Error; err != nil {
		return err
	}
	for _, r := range sessions {
		m.sessionsByStatus.Set(float64(r.N), r.Status)
	}
	var outbox []row
	if err := db.WithContext(ctx).Model(&types.ArchiveOutbox{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&outbox).Error; err != nil {
		return err
	}
	for _, r := range outbox {
		m.archiveBacklog.Set(float64(r.N), r.Status)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	stats := sqlDB.Stats()
	m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
	m.pgStats.Set(float64(stats.InUse), "in_use")
	m.pgStats.Set(float64(stats.Idle), "idle")
	m.pgStats.Set(float64(stats.WaitCount), "wait_count")
	m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	return nil
}

// StartCollector refreshes the store gauges every interval until ctx is done.
func (m *Metrics) StartCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Collect(ctx, db); err != nil && ctx.Err() == nil && log != nil {
					log.Warn("metrics: collect failed", "error", err)
				}
			}
		}
	}()
}
