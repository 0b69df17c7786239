package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger мок логгера
type MockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *MockLogger) Error(format string, v ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, format)
}

// MockObserver мок получателя HTTP метрик
type MockObserver struct {
	method string
	route  string
	status string
}

func (m *MockObserver) ObserveHTTP(method, route, status string, d time.Duration) {
	m.method = method
	m.route = route
	m.status = status
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	logger := &MockLogger{}
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, logger.errors, 1)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	observer := &MockObserver{}
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(observer))
	router.HandleFunc("/api/v1/reservations/{reservationId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/reservations/17", nil))

	assert.Equal(t, http.MethodGet, observer.method)
	assert.Equal(t, "/api/v1/reservations/{reservationId}", observer.route)
	assert.Equal(t, "404", observer.status)
}

func TestMetricsMiddleware_DefaultStatus(t *testing.T) {
	observer := &MockObserver{}
	handler := MetricsMiddleware(observer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "unknown", observer.route)
	assert.Equal(t, "200", observer.status)
}
