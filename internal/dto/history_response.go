package dto

import (
	"trafficflow/internal/model"
	"trafficflow/internal/service/history"
)

type HistoryResponse struct {
	Samples []model.FrameSample `json:"samples"`
	Summary history.Summary     `json:"summary"`
}

func NewHistoryResponse(samples []model.FrameSample) HistoryResponse {
	if samples == nil {
		samples = []model.FrameSample{}
	}
	return HistoryResponse{Samples: samples, Summary: history.Summarize(samples)}
}
