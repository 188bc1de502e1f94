package handler

import (
	"encoding/json"
	"net/http"

	"trafficflow/internal/dto"
	"trafficflow/internal/logger"
	"trafficflow/internal/service"
)

// ControlSignalHandler recommends green/red phase lengths for a level.
func ControlSignalHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}

		var req dto.SignalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.ClusterLevel == "" {
			req.ClusterLevel = "medium"
		}

		timing := manager.RecommendSignalTiming(req.ClusterLevel)
		writeJSON(w, http.StatusOK, dto.NewSignalResponse(req.ClusterLevel, timing))
	}
}
