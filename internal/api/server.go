package api

import (
	"log/slog"
	"net/http"
	"time"

	"linkcfg/pkg/logging"
	"linkcfg/pkg/metrics"
	"linkcfg/pkg/version"
)

// NewServer creates and configures the HTTP server.
// craft and m are optional; shutdown is called by POST /api/shutdown.
func NewServer(addr string, settingsH *SettingsHandler, stream *StreamHub, craft *CraftNameHandler, m *metrics.Metrics, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health & Version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Logs Endpoint
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)
	mux.HandleFunc("GET /api/log/changes", handleRecentChanges)

	// 3. Settings Endpoints
	mux.HandleFunc("GET /api/settings", settingsH.HandleView)
	mux.HandleFunc("GET /api/settings/stream", stream.HandleStream)
	mux.HandleFunc("GET /api/settings/{key}", settingsH.HandleGet)
	mux.HandleFunc("PUT /api/settings/{key}", settingsH.HandleSet)
	mux.HandleFunc("POST /api/settings/{key}/increment", settingsH.HandleIncrement)
	mux.HandleFunc("POST /api/settings/{key}/decrement", settingsH.HandleDecrement)

	// 4. Output Endpoints
	if craft != nil {
		mux.HandleFunc("GET /api/output/craft-name/poll", craft.HandlePoll)
		mux.HandleFunc("PUT /api/output/craft-name", craft.HandleName)
	}

	// 5. Metrics
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// 6. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	var handler http.Handler = mux
	if m != nil {
		handler = m.Middleware(handler)
	}
	handler = loggingMiddleware(handler)

	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if logging.RequestLogger != nil {
			logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		}
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, VersionResponse{Version: version.Version, BuildDate: version.BuildDate})
}
