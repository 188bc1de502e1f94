package handler

import (
	"net/http"

	"trafficflow/internal/dto"
	"trafficflow/internal/service"
	"trafficflow/internal/service/history"
)

func StatusHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewers := 0
		if hub := manager.GetWebsocketService(); hub != nil {
			viewers = hub.GetClientCount()
		}

		resp := dto.NewStatusResponse(
			manager.Status(),
			history.Summarize(manager.HistorySnapshot()),
			manager.Latency(),
			viewers,
		)
		resp.Upload = dto.NewUploadInfo(manager.CurrentUpload())
		writeJSON(w, http.StatusOK, resp)
	}
}
