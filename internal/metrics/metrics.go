package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarframe_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solarframe_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	frameWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarframe_frame_writes_total",
			Help: "Frames pushed to the LED strip.",
		},
		[]string{"result"},
	)

	frameWriteSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solarframe_frame_write_seconds",
			Help:    "Latency of a single strip write.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)

	refreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solarframe_scene_refreshes_total",
			Help: "Completed solar scene refreshes.",
		},
	)

	refreshSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solarframe_scene_refresh_seconds",
			Help:    "Duration of one solar scene refresh including the transition.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	markerSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solarframe_marker_skipped_total",
			Help: "Scene refreshes that dropped the marker due to degenerate geometry.",
		},
	)

	markerIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarframe_marker_index",
			Help: "LED index of the current sun or moon marker.",
		},
	)

	solarAzimuthDeg = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarframe_solar_azimuth_degrees",
			Help: "Last computed solar azimuth in north-clockwise degrees.",
		},
	)

	solarElevationDeg = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarframe_solar_elevation_degrees",
			Help: "Last computed solar elevation in degrees.",
		},
	)

	streamConnections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarframe_stream_connections_total",
			Help: "SSE stream connection events.",
		},
		[]string{"event"},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarframe_streams_active",
			Help: "Currently connected SSE stream clients.",
		},
	)

	streamMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solarframe_stream_messages_total",
			Help: "SSE messages sent to clients.",
		},
	)

	streamBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solarframe_stream_bytes_total",
			Help: "Bytes written to SSE clients.",
		},
	)

	streamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarframe_stream_errors_total",
			Help: "SSE stream errors by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		frameWritesTotal,
		frameWriteSeconds,
		refreshesTotal,
		refreshSeconds,
		markerSkippedTotal,
		markerIndex,
		solarAzimuthDeg,
		solarElevationDeg,
		streamConnections,
		streamsActive,
		streamMessages,
		streamBytes,
		streamErrors,
	)
}

// IncStreamConnections counts a stream connect or disconnect event.
func IncStreamConnections(event string) {
	streamConnections.WithLabelValues(event).Inc()
}

// IncStreamsActive bumps the active stream gauge.
func IncStreamsActive() { streamsActive.Inc() }

// DecStreamsActive drops the active stream gauge.
func DecStreamsActive() { streamsActive.Dec() }

// IncStreamMessages counts one SSE message sent.
func IncStreamMessages() { streamMessages.Inc() }

// AddStreamBytes counts bytes written to SSE clients.
func AddStreamBytes(n int64) { streamBytes.Add(float64(n)) }

// IncStreamErrors counts a stream error by reason.
func IncStreamErrors(reason string) {
	streamErrors.WithLabelValues(reason).Inc()
}

// RecordFrameWrite counts one strip write and its latency.
func RecordFrameWrite(d time.Duration, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	frameWritesTotal.WithLabelValues(result).Inc()
	frameWriteSeconds.Observe(d.Seconds())
}

// RecordRefresh counts one completed solar scene refresh.
func RecordRefresh(d time.Duration) {
	refreshesTotal.Inc()
	refreshSeconds.Observe(d.Seconds())
}

// IncMarkerSkipped counts a refresh whose marker was dropped.
func IncMarkerSkipped() {
	markerSkippedTotal.Inc()
}

// SetMarkerIndex publishes the marker's LED index.
func SetMarkerIndex(i int) {
	markerIndex.Set(float64(i))
}

// SetSolarPosition publishes the last computed solar position in degrees.
func SetSolarPosition(azimuthDeg, elevationDeg float64) {
	solarAzimuthDeg.Set(azimuthDeg)
	solarElevationDeg.Set(elevationDeg)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// knownRoutes are the paths the server actually registers. Anything else
// (bots probing /wp-admin, stale clients) collapses into one label so scan
// traffic cannot blow up metric cardinality.
var knownRoutes = map[string]bool{
	"/healthz":              true,
	"/readyz":               true,
	"/metrics":              true,
	"/api/v1/status":        true,
	"/api/v1/frame":         true,
	"/api/v1/demo":          true,
	"/api/v1/clock":         true,
	"/api/v1/stream/frames": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
