package handler

import (
	"errors"
	"net/http"

	"trafficflow/internal/dto"
	"trafficflow/internal/logger"
	"trafficflow/internal/service"
	"trafficflow/internal/service/source"
)

// TrafficSnapshotHandler runs one poll cycle and returns its result.
func TrafficSnapshotHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		result, err := manager.CaptureAndAnalyze()
		if err != nil {
			writeError(w, http.StatusOK, snapshotErrorMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, dto.NewSnapshotResponse(result))
	}
}

func snapshotErrorMessage(err error) string {
	switch {
	case errors.Is(err, source.ErrNoActiveSource):
		return "No video source active"
	case errors.Is(err, source.ErrFrameReadFailure):
		return "Cannot read frame"
	default:
		return "Processing error: " + err.Error()
	}
}
