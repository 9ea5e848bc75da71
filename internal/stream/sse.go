// Package stream implements Server-Sent Events (SSE) streaming of LED
// frames. Clients connect via GET /api/v1/stream/frames and receive the
// frames the daemon pushes to the strip, base64-encoded in wire order.
//
// SSE message format:
//
//	data: {"type":"frame","t":"2026-08-30T12:00:00Z","data":"<base64 GRBW>"}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","leds":180,"channels":4,"order":"GRBW"}\n\n
//
// Keep-alive comments (:\n\n) are sent every KeepaliveInterval to prevent
// timeout. Reconnecting clients receive a fresh metadata message on each
// connection.
package stream

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/marcwingduck/solar-map/internal/httputil"
	"github.com/marcwingduck/solar-map/internal/metrics"
	"github.com/marcwingduck/solar-map/internal/pixel"
)

// Config holds streaming configuration.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 10).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 30s).
	TrustProxy         bool          // Trust X-Forwarded-For for client IPs.
}

// Handler manages SSE streaming connections.
type Handler struct {
	hub     *Hub
	leds    int
	config  Config
	limiter *connLimiter
	logger  *slog.Logger
}

// NewHandler creates a streaming handler over the given hub for a ring of
// leds pixels.
func NewHandler(hub *Hub, leds int, config Config, logger *slog.Logger) *Handler {
	if config.MaxConcurrentPerIP <= 0 {
		config.MaxConcurrentPerIP = 10
	}
	if config.KeepaliveInterval <= 0 {
		config.KeepaliveInterval = 30 * time.Second
	}
	return &Handler{
		hub:     hub,
		leds:    leds,
		config:  config,
		limiter: newConnLimiter(config.MaxConcurrentPerIP),
		logger:  logger,
	}
}

// HandleFrames serves the SSE frame stream.
// GET /api/v1/stream/frames?max_fps=30
func (h *Handler) HandleFrames(w http.ResponseWriter, r *http.Request) {
	maxFPS := 30
	if v := r.URL.Query().Get("max_fps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 120 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid max_fps parameter, must be 1-120"})
			return
		}
		maxFPS = n
	}
	minFrameGap := time.Second / time.Duration(maxFPS)

	// Enforce concurrent stream limit per IP.
	ip := httputil.ClientIP(r, h.config.TrustProxy)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
		)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "too many concurrent streams"})
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"user_agent", r.Header.Get("User-Agent"),
		"max_fps", maxFPS,
	)

	defer func() {
		h.limiter.release(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"duration_seconds", int(time.Since(startTime).Seconds()),
		)
	}()

	// Verify flusher support (required for SSE).
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Clear the server's default WriteTimeout for this long-lived connection.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	c := &client{
		w:       w,
		flusher: flusher,
		rc:      rc,
		ip:      ip,
		logger:  h.logger,
	}

	// Jittered retry interval (3-7s) to prevent thundering-herd reconnection
	// storms when the daemon restarts.
	retryMs := 3000 + rand.Intn(4000)
	fmt.Fprintf(w, "retry: %d\n\n", retryMs)
	flusher.Flush()

	meta := metadataMessage{
		Type:     "metadata",
		LEDs:     h.leds,
		Channels: pixel.Channels,
		Order:    "GRBW",
	}
	if err := c.sendJSON(meta); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error (metadata)", "remote_ip", ip, "error", err)
		return
	}

	frames, cancel := h.hub.Subscribe(4)
	defer cancel()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	var lastSent time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case frame, open := <-frames:
			if !open {
				return
			}
			now := time.Now()
			if now.Sub(lastSent) < minFrameGap {
				continue
			}
			msg := frameMessage{
				Type: "frame",
				T:    now.UTC().Format(time.RFC3339Nano),
				Data: base64.StdEncoding.EncodeToString(frame),
			}
			if err := c.sendJSON(msg); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream send error", "remote_ip", ip, "error", err)
				return
			}
			lastSent = now

			// Reset keepalive since we just sent data.
			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case <-keepaliveTicker.C:
			if err := c.sendKeepalive(); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
				return
			}
		}
	}
}

// SSE message payload types.

type metadataMessage struct {
	Type     string `json:"type"`
	LEDs     int    `json:"leds"`
	Channels int    `json:"channels"`
	Order    string `json:"order"`
}

type frameMessage struct {
	Type string `json:"type"`
	T    string `json:"t"`
	Data string `json:"data"`
}
