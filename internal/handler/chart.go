package handler

import (
	"encoding/base64"
	"errors"
	"net/http"

	"trafficflow/internal/dto"
	"trafficflow/internal/logger"
	"trafficflow/internal/service"
	"trafficflow/internal/service/chart"
)

const notEnoughDataMessage = "Not enough data. Please wait for traffic analysis to collect data."

// GenerateGraphHandler returns the history chart as a base64 PNG.
func GenerateGraphHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		samples := manager.HistorySnapshot()
		png, err := chart.RenderPNG(samples)
		if errors.Is(err, chart.ErrNotEnoughData) {
			writeError(w, http.StatusOK, notEnoughDataMessage)
			return
		}
		if err != nil {
			logger.Error("Graph generation error: %v", err)
			writeError(w, http.StatusInternalServerError, "Graph generation error: "+err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto.GraphResponse{
			Status:     dto.StatusSuccess,
			Graph:      base64.StdEncoding.EncodeToString(png),
			DataPoints: len(samples),
		})
	}
}

// HistoryHandler returns the raw history with summary statistics.
func HistoryHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, http.StatusOK, dto.NewHistoryResponse(manager.HistorySnapshot()))
	}
}

// HistoryChartHandler renders the interactive history page.
func HistoryChartHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		page, err := chart.RenderHTML(manager.HistorySnapshot())
		if errors.Is(err, chart.ErrNotEnoughData) {
			http.Error(w, notEnoughDataMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("History chart error: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}
