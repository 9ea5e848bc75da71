package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"github.com/marcwingduck/solar-map/internal/api"
	"github.com/marcwingduck/solar-map/internal/auth"
	"github.com/marcwingduck/solar-map/internal/config"
	"github.com/marcwingduck/solar-map/internal/driver"
	"github.com/marcwingduck/solar-map/internal/frame"
	"github.com/marcwingduck/solar-map/internal/pixel"
	"github.com/marcwingduck/solar-map/internal/scene"
	"github.com/marcwingduck/solar-map/internal/stream"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	// Bootstrap logger until the configured level is known.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	applyEnv(cfg, logger)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration after environment overrides", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}))

	layout, err := frame.NewLayout(frame.Config{
		Cols:        cfg.Frame.Cols,
		Rows:        cfg.Frame.Rows,
		WidthCm:     cfg.Frame.WidthCm,
		HeightCm:    cfg.Frame.HeightCm,
		LEDsPerCm:   cfg.Frame.LEDsPerCm,
		IndexOffset: cfg.Frame.IndexOffset,
	})
	if err != nil {
		logger.Error("invalid frame geometry", "error", err)
		os.Exit(1)
	}

	drv, err := openDriver(cfg, layout.N, logger)
	if err != nil {
		logger.Error("opening LED driver failed", "error", err)
		os.Exit(1)
	}

	hub := stream.NewHub()
	teed := stream.NewTee(driver.Instrument(drv), hub)

	buf, err := pixel.NewBuffer(layout.N, teed)
	if err != nil {
		logger.Error("creating pixel buffer failed", "error", err)
		os.Exit(1)
	}

	composer := scene.NewComposer(buf, layout, cfg.Location, cfg.Scene, logger)

	streamHandler := stream.NewHandler(hub, layout.N, loadStreamConfig(logger), logger)
	authCfg := auth.Config{Enabled: cfg.Auth.Enabled, Token: cfg.Auth.Token}
	srv := api.NewServer(cfg.HTTP.Addr, composer, streamHandler, logger, authCfg)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("ramping up",
		"lat", cfg.Location.Latitude,
		"lon", cfg.Location.Longitude,
		"refresh_interval", cfg.Scene.RefreshInterval.String(),
	)
	if err := composer.RampUp(); err != nil {
		logger.Error("ramp-up failed", "error", err)
	}
	if err := composer.Start(); err != nil {
		logger.Error("starting solar scene failed", "error", err)
		os.Exit(1)
	}

	// Serve only once the scene is running, so no request can race the
	// scheduler arming above.
	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTP.Addr,
			"auth_enabled", authCfg.Enabled,
			"driver", cfg.LED.Driver,
			"leds", layout.N,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	composer.Stop()
	if err := teed.Close(); err != nil {
		logger.Error("closing LED driver failed", "error", err)
	}

	logger.Info("stopped")
}

// openDriver builds the configured pixel driver. The SPI backend needs the
// periph host drivers initialized first.
func openDriver(cfg *config.Config, n int, logger *slog.Logger) (pixel.Driver, error) {
	switch cfg.LED.Driver {
	case "null":
		logger.Info("using null LED driver, frames are discarded")
		return driver.Null{}, nil
	case "spi":
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("periph host init: %w", err)
		}
		return driver.NewNRZ(cfg.LED.SPIPort, n)
	default:
		return nil, fmt.Errorf("unknown led driver %q", cfg.LED.Driver)
	}
}

// applyEnv overrides operational knobs from SOLARFRAME_* variables. The YAML
// file carries the full configuration; the environment covers the handful of
// settings that differ between deployments.
func applyEnv(cfg *config.Config, logger *slog.Logger) {
	if v := os.Getenv("SOLARFRAME_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}

	if v := os.Getenv("SOLARFRAME_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SOLARFRAME_AUTH_ENABLED value, keeping configured value", "value", v)
		} else {
			cfg.Auth.Enabled = enabled
		}
	}
	if v := os.Getenv("SOLARFRAME_AUTH_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}

	if v := os.Getenv("SOLARFRAME_LED_DRIVER"); v != "" {
		cfg.LED.Driver = v
	}
	if v := os.Getenv("SOLARFRAME_SPI_PORT"); v != "" {
		cfg.LED.SPIPort = v
	}

	if v := os.Getenv("SOLARFRAME_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logger.Warn("invalid SOLARFRAME_REFRESH_INTERVAL value, keeping configured value", "value", v)
		} else {
			cfg.Scene.RefreshInterval = d
		}
	}

	if v := os.Getenv("SOLARFRAME_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func loadStreamConfig(logger *slog.Logger) stream.Config {
	cfg := stream.Config{
		MaxConcurrentPerIP: 10,
		KeepaliveInterval:  30 * time.Second,
	}

	if v := os.Getenv("SOLARFRAME_STREAM_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SOLARFRAME_STREAM_MAX_CONCURRENT value, using default", "value", v, "default", 10)
		} else {
			cfg.MaxConcurrentPerIP = n
		}
	}

	if v := os.Getenv("SOLARFRAME_STREAM_KEEPALIVE_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SOLARFRAME_STREAM_KEEPALIVE_INTERVAL value, using default", "value", v, "default", 30)
		} else {
			cfg.KeepaliveInterval = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("SOLARFRAME_STREAM_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SOLARFRAME_STREAM_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	return cfg
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
