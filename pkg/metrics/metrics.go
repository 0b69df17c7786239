package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекторы Prometheus сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	BookingAttempts *prometheus.CounterVec
	BookingRetries  *prometheus.CounterVec
	SearchDuration  *prometheus.HistogramVec
	LockWait        *prometheus.HistogramVec

	serviceName string
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),
		BookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "table_booking_attempts_total",
			Help: "Booking attempts by outcome",
		}, []string{"service", "outcome"}),
		BookingRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "table_booking_conflict_retries_total",
			Help: "Internal conflict retries during commit",
		}, []string{"service"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "table_combination_search_duration_seconds",
			Help:    "Latency of table combination search",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05},
		}, []string{"service", "operation"}),
		LockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "table_booking_lock_wait_seconds",
			Help:    "Time spent waiting for the booking lock",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "result"}),
	}
	m.serviceName = serviceName

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingAttempts,
		m.BookingRetries,
		m.SearchDuration,
		m.LockWait,
	)

	return m
}

// ObserveHTTP фиксирует HTTP запрос
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(d.Seconds())
}

// ObserveQuery фиксирует запрос к БД
func (m *Metrics) ObserveQuery(operation string, d time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(d.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(stats sql.DBStats) {
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.DBInUse.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.DBIdle.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(stats.WaitCount))
}

// ObserveBooking фиксирует исход попытки бронирования
func (m *Metrics) ObserveBooking(outcome string) {
	m.BookingAttempts.WithLabelValues(m.serviceName, outcome).Inc()
}

// ObserveConflictRetry фиксирует внутренний повтор после конфликта
func (m *Metrics) ObserveConflictRetry() {
	m.BookingRetries.WithLabelValues(m.serviceName).Inc()
}

// ObserveSearch фиксирует длительность поиска комбинации столов
func (m *Metrics) ObserveSearch(operation string, d time.Duration) {
	m.SearchDuration.WithLabelValues(m.serviceName, operation).Observe(d.Seconds())
}

// ObserveLockWait фиксирует ожидание блокировки
func (m *Metrics) ObserveLockWait(acquired bool, d time.Duration) {
	result := "acquired"
	if !acquired {
		result = "timeout"
	}
	m.LockWait.WithLabelValues(m.serviceName, result).Observe(d.Seconds())
}

// Nop реализация рекордера без метрик (метрики отключены в конфиге)
type Nop struct{}

func (Nop) ObserveBooking(string) {}
func (Nop) ObserveConflictRetry() {}
func (Nop) ObserveSearch(string, time.Duration) {}
func (Nop) ObserveLockWait(bool, time.Duration) {}
