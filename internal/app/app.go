// Package app wires the process together: logging router, metrics, hub, and
// the HTTP surface.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	server "admiral-radar/server"
	servernet "admiral-radar/server/internal/net"
	"admiral-radar/server/internal/telemetry"
	"admiral-radar/server/logging"
	loggingSinks "admiral-radar/server/logging/sinks"
)

type Config struct {
	Addr      string
	ClientDir string
	Logger    telemetry.Logger
}

// Run starts the server and blocks until the listener fails.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	logConfig := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open json log file: %w", err)
		}
		defer file.Close()
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "json",
			Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval),
		})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	metrics := logging.NewMetrics()

	hubCfg := server.DefaultHubConfig()
	if raw := os.Getenv("BOT_TICK_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			hubCfg.TickInterval = time.Duration(value) * time.Millisecond
		} else {
			telemetryLogger.Printf("invalid BOT_TICK_MS=%q: %v", raw, err)
		}
	}
	hubCfg.Logger = telemetryLogger
	hubCfg.Metrics = telemetry.WrapMetrics(metrics)

	hub := server.NewHubWithConfig(hubCfg, router)
	defer hub.Shutdown()

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: cfg.ClientDir,
		Logger:    telemetryLogger,
		Metrics:   metrics,
	})

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	telemetryLogger.Printf("server listening on %s", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
