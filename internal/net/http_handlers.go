// Package net assembles the HTTP surface: session lifecycle endpoints,
// diagnostics, and the websocket upgrade route.
package net

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"time"

	server "admiral-radar/server"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
	"admiral-radar/server/internal/net/ws"
	"admiral-radar/server/internal/session"
	"admiral-radar/server/internal/telemetry"
	"admiral-radar/server/logging"
)

type HTTPHandlerConfig struct {
	ClientDir string
	Logger    telemetry.Logger
	// Metrics, when set, backs the /diagnostics telemetry snapshot.
	Metrics *logging.Metrics
}

func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var telemetrySnapshot map[string]uint64
		if cfg.Metrics != nil {
			telemetrySnapshot = cfg.Metrics.Snapshot()
		}
		payload := struct {
			Status     string            `json:"status"`
			ServerTime int64             `json:"serverTime"`
			Sessions   int               `json:"sessions"`
			Telemetry  map[string]uint64 `json:"telemetry,omitempty"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Sessions:   hub.SessionCount(),
			Telemetry:  telemetrySnapshot,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/session/create", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		type createRequest struct {
			Seed    *int64 `json:"seed"`
			Rows    *int   `json:"rows"`
			Cols    *int   `json:"cols"`
			Islands *int   `json:"islands"`
		}

		var opts session.Options
		if r.Body != nil {
			defer r.Body.Close()
			var req createRequest
			decoder := json.NewDecoder(r.Body)
			if err := decoder.Decode(&req); err != nil && err != io.EOF {
				httpError(w, "invalid payload", nethttp.StatusBadRequest)
				return
			}
			if req.Seed != nil {
				opts.Seed = *req.Seed
			}
			if req.Rows != nil || req.Cols != nil || req.Islands != nil {
				settings := grid.DefaultSettings()
				if req.Rows != nil {
					settings.Rows = *req.Rows
				}
				if req.Cols != nil {
					settings.Cols = *req.Cols
				}
				if req.Islands != nil {
					settings.NumIslands = *req.Islands
				}
				opts.Settings = settings
			}
		}

		s, err := hub.CreateSession(opts)
		if err != nil {
			logger.Printf("session create failed: %v", err)
			httpError(w, "failed to create session", nethttp.StatusInternalServerError)
			return
		}

		view := s.ViewFor(game.TeamBlue)
		sectors := 0
		if view.Map.SectorWidth > 0 && view.Map.SectorHeight > 0 {
			sectors = (view.Map.Rows / view.Map.SectorHeight) * (view.Map.Cols / view.Map.SectorWidth)
		}
		response := struct {
			ID      string `json:"id"`
			Rows    int    `json:"rows"`
			Cols    int    `json:"cols"`
			Sectors int    `json:"sectors"`
		}{
			ID:      s.ID(),
			Rows:    view.Map.Rows,
			Cols:    view.Map.Cols,
			Sectors: sectors,
		}

		data, err := json.Marshal(response)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/session/destroy", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		type destroyRequest struct {
			ID string `json:"id"`
		}

		var req destroyRequest
		if r.Body != nil {
			defer r.Body.Close()
			decoder := json.NewDecoder(r.Body)
			if err := decoder.Decode(&req); err != nil && err != io.EOF {
				httpError(w, "invalid payload", nethttp.StatusBadRequest)
				return
			}
		}
		if req.ID == "" {
			httpError(w, "missing id", nethttp.StatusBadRequest)
			return
		}

		if err := hub.DestroySession(req.ID); err != nil {
			if err == session.ErrSessionNotFound {
				httpError(w, "unknown session", nethttp.StatusNotFound)
				return
			}
			httpError(w, "failed to destroy session", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: logger})
	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
