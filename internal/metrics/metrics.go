// Package metrics — прикладные метрики Prometheus сервиса сигналов.
// Все методы безопасны для nil-получателя: сервис работает и без метрик.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signals"

// Результаты голосования (метка result).
const (
	VoteAccepted     = "accepted"
	VoteDuplicate    = "duplicate"
	VoteNotFound     = "not_found"
	VoteStorageError = "error"
)

// Metrics — набор счётчиков и гистограмм сервиса.
type Metrics struct {
	reactions   *prometheus.CounterVec
	votes       *prometheus.CounterVec
	activations prometheus.Counter
	httpLatency *prometheus.HistogramVec
	refreshes   *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
}

// New регистрирует метрики в reg (обычно prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// op: create, update, delete, purge.
		reactions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Reaction mutations by operation",
		}, []string{"op"}),
		votes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Controversy votes by result",
		}, []string{"result"}),
		activations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_activated_total",
			Help:      "Warnings that reached the activation threshold",
		}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "code"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "refreshes_total",
			Help:      "Mirror refreshes by status",
		}, []string{"status"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Warning cache lookups by result",
		}, []string{"result"}),
	}
}

// ReactionOp учитывает мутацию реакций.
func (m *Metrics) ReactionOp(op string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reactions.WithLabelValues(op).Add(float64(n))
}

// Vote учитывает результат голосования.
func (m *Metrics) Vote(result string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(result).Inc()
}

// Activated учитывает переход предупреждения в ACTIVE.
func (m *Metrics) Activated() {
	if m == nil {
		return
	}
	m.activations.Inc()
}

// CacheLookup учитывает попадание или промах кэша.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(result).Inc()
}

// Refresh учитывает обновление зеркала на клиенте.
func (m *Metrics) Refresh(err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.refreshes.WithLabelValues(status).Inc()
}

// ObserveHTTP записывает длительность запроса.
func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if code == 0 {
		code = http.StatusOK
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}
