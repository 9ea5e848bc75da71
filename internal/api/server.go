package api

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/marcwingduck/solar-map/internal/auth"
	"github.com/marcwingduck/solar-map/internal/health"
	"github.com/marcwingduck/solar-map/internal/metrics"
	"github.com/marcwingduck/solar-map/internal/pixel"
	"github.com/marcwingduck/solar-map/internal/scene"
	"github.com/marcwingduck/solar-map/internal/stream"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	composer   *scene.Composer
	logger     *slog.Logger

	// animating guards the long-running demo/clock endpoints so only one
	// manual animation runs at a time.
	animating atomic.Bool
}

// NewServer creates a configured HTTP server over the scene composer.
// streamHandler may be nil to disable the SSE endpoint.
func NewServer(addr string, composer *scene.Composer, streamHandler *stream.Handler, logger *slog.Logger, authCfg auth.Config) *Server {
	s := &Server{
		composer: composer,
		logger:   logger,
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(func() bool {
		return composer.SchedulerState() == scene.SchedulerScheduled
	}))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/frame", s.handleFrame)
	mux.HandleFunc("POST /api/v1/demo", s.handleDemo)
	mux.HandleFunc("POST /api/v1/clock", s.handleClock)
	if streamHandler != nil {
		mux.HandleFunc("GET /api/v1/stream/frames", streamHandler.HandleFrames)
	}

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// statusResponse is the GET /api/v1/status payload.
type statusResponse struct {
	*scene.Status
	Scheduler string `json:"scheduler"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:    s.composer.Status(),
		Scheduler: s.composer.SchedulerState().String(),
	})
}

// frameResponse is the GET /api/v1/frame payload: the currently displayed
// frame, base64-encoded in wire order.
type frameResponse struct {
	LEDs     int    `json:"leds"`
	Channels int    `json:"channels"`
	Order    string `json:"order"`
	T        string `json:"t"`
	Data     string `json:"data"`
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	n, snap := s.composer.Frame()
	writeJSON(w, http.StatusOK, frameResponse{
		LEDs:     n,
		Channels: pixel.Channels,
		Order:    "GRBW",
		T:        time.Now().UTC().Format(time.RFC3339),
		Data:     base64.StdEncoding.EncodeToString(snap),
	})
}

// handleDemo starts the simulated-day sweep in the background.
// POST /api/v1/demo
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	if !s.sceneStarted() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "scene not started"})
		return
	}
	if !s.animating.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "animation already running"})
		return
	}

	go func() {
		defer s.animating.Store(false)
		if err := s.composer.Demo(); err != nil {
			s.logger.Error("demo animation failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "demo started"})
}

// handleClock shows the live clock for a number of seconds.
// POST /api/v1/clock?seconds=20
func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	seconds := 20
	if v := r.URL.Query().Get("seconds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 300 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid seconds parameter, must be 1-300"})
			return
		}
		seconds = n
	}

	if !s.sceneStarted() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "scene not started"})
		return
	}
	if !s.animating.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "animation already running"})
		return
	}

	go func() {
		defer s.animating.Store(false)
		if err := s.composer.RunClock(seconds, time.Second); err != nil {
			s.logger.Error("clock animation failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "clock started", "seconds": strconv.Itoa(seconds)})
}

// sceneStarted reports whether the composer has armed its periodic refresh
// at least once. Manual animations cancel and re-arm that scheduler, so
// running one against a never-started scene would arm it out of turn.
func (s *Server) sceneStarted() bool {
	return s.composer.SchedulerState() != scene.SchedulerIdle
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
