package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of failed Redis operations",
		},
		[]string{"operation"},
	)
	PlacesRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_request_duration_seconds",
			Help:    "Google Places API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	PlacesErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_errors_total",
			Help: "Total number of failed Google Places API requests",
		},
		[]string{"endpoint"},
	)
	PlaceChangedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "control_place_changed_total",
			Help: "Place selection events handled by controls, by outcome",
		},
		[]string{"outcome"},
	)
	OutputNotificationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "control_output_notifications_total",
			Help: "Total number of output-changed notifications raised by controls",
		},
	)
	ActiveControls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "controls_active",
			Help: "Number of live autocomplete controls",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(RedisOperationDuration)
		prometheus.MustRegister(RedisErrorsTotal)
		prometheus.MustRegister(PlacesRequestDuration)
		prometheus.MustRegister(PlacesErrorsTotal)
		prometheus.MustRegister(PlaceChangedTotal)
		prometheus.MustRegister(OutputNotificationsTotal)
		prometheus.MustRegister(ActiveControls)
	})
}

// ObserveRedis records the duration of a Redis operation and counts it as
// failed when err is non-nil.
func ObserveRedis(operation string, start time.Time, err error) {
	RedisOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		RedisErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// ObservePlaces records the duration of a Places API call.
func ObservePlaces(endpoint string, start time.Time, err error) {
	PlacesRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		PlacesErrorsTotal.WithLabelValues(endpoint).Inc()
	}
}
