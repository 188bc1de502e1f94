package route

import (
	"net/http"
	"os"
	"path/filepath"

	"trafficflow/internal/config"
	"trafficflow/internal/handler"
	"trafficflow/internal/logger"
	"trafficflow/internal/middleware"
	"trafficflow/internal/service"
)

// dynamicHTMLHandler serves /path as <static>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers static file serving, API endpoints and log
// endpoints, and wraps the mux with the recover and request-log middleware.
func SetupRoutes(manager *service.Manager, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Source control
	mux.HandleFunc("/api/switch_source", handler.SwitchSourceHandler(manager, log))
	mux.HandleFunc("/api/upload_video", handler.UploadVideoHandler(manager, cfg, log))
	mux.HandleFunc("/api/delete_video", handler.DeleteVideoHandler(manager, log))

	// Analysis
	mux.HandleFunc("/api/traffic_snapshot", handler.TrafficSnapshotHandler(manager, log))
	mux.HandleFunc("/api/control_signal", handler.ControlSignalHandler(manager, log))
	mux.HandleFunc("/api/generate_graph", handler.GenerateGraphHandler(manager, log))
	mux.HandleFunc("/api/history", handler.HistoryHandler(manager))
	mux.HandleFunc("/api/history/chart", handler.HistoryChartHandler(manager, log))
	mux.HandleFunc("/api/status", handler.StatusHandler(manager))
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(manager, log))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowLogsHandler(log, logger.InfoFile))
	mux.HandleFunc("/logs/warning", handler.ShowLogsHandler(log, logger.WarningFile))
	mux.HandleFunc("/logs/error", handler.ShowLogsHandler(log, logger.ErrorFile))

	mux.HandleFunc("/logs/info/clear", handler.ClearLogsHandler(log, logger.InfoFile))
	mux.HandleFunc("/logs/warning/clear", handler.ClearLogsHandler(log, logger.WarningFile))
	mux.HandleFunc("/logs/error/clear", handler.ClearLogsHandler(log, logger.ErrorFile))

	// Automatic HTML handler mapping for example: /history -> <static>/history.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	// Apply middleware
	return middleware.Recover(log)(middleware.RequestLog(log)(mux))
}
