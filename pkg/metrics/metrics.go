package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec

	indexLoadsTotal     *prometheus.CounterVec
	indexLoadDuration   prometheus.Histogram
	slotFetchFailures   prometheus.Counter
	refreshCyclesTotal  *prometheus.CounterVec
	staleLoadsDiscarded prometheus.Counter
	activeViews         prometheus.Gauge
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registerer
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "result"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),
		indexLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_index_loads_total",
			Help:        "Booking index loads by outcome",
			ConstLabels: labels,
		}, []string{"result"}),
		indexLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "booking_index_load_duration_seconds",
			Help:        "Time until every per-slot booking query settled",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		slotFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_index_slot_failures_total",
			Help:        "Per-slot booking queries that failed and were replaced by an empty list",
			ConstLabels: labels,
		}),
		refreshCyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "occupancy_refresh_cycles_total",
			Help:        "Live view refresh cycles by trigger and outcome",
			ConstLabels: labels,
		}, []string{"trigger", "result"}),
		staleLoadsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "occupancy_stale_loads_discarded_total",
			Help:        "Loads discarded because a newer generation was issued",
			ConstLabels: labels,
		}),
		activeViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "occupancy_active_views",
			Help:        "Number of live occupancy views",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbConnections,
		m.indexLoadsTotal,
		m.indexLoadDuration,
		m.slotFetchFailures,
		m.refreshCyclesTotal,
		m.staleLoadsDiscarded,
		m.activeViews,
	)

	return m
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveDBQuery учитывает выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, result).Observe(d.Seconds())
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// ObserveIndexLoad учитывает завершенную загрузку индекса бронирований
func (m *Metrics) ObserveIndexLoad(d time.Duration, slots, failed int) {
	result := "ok"
	switch {
	case failed > 0 && failed == slots:
		result = "failed"
	case failed > 0:
		result = "partial"
	}
	m.indexLoadsTotal.WithLabelValues(result).Inc()
	m.indexLoadDuration.Observe(d.Seconds())
	m.slotFetchFailures.Add(float64(failed))
}

// IncRefreshCycle учитывает цикл обновления live-представления
func (m *Metrics) IncRefreshCycle(trigger, result string) {
	m.refreshCyclesTotal.WithLabelValues(trigger, result).Inc()
}

// IncStaleDiscarded учитывает отброшенный устаревший результат загрузки
func (m *Metrics) IncStaleDiscarded() {
	m.staleLoadsDiscarded.Inc()
}

// ViewOpened увеличивает число активных представлений
func (m *Metrics) ViewOpened() {
	m.activeViews.Inc()
}

// ViewClosed уменьшает число активных представлений
func (m *Metrics) ViewClosed() {
	m.activeViews.Dec()
}
