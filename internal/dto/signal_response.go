package dto

import (
	"fmt"

	"trafficflow/internal/service/traffic"
)

type SignalRequest struct {
	ClusterLevel string `json:"cluster_level"`
}

type SignalResponse struct {
	GreenTime int    `json:"green_time"`
	RedTime   int    `json:"red_time"`
	Note      string `json:"note"`
}

func NewSignalResponse(level string, timing traffic.SignalTiming) SignalResponse {
	return SignalResponse{
		GreenTime: timing.Green,
		RedTime:   timing.Red,
		Note:      fmt.Sprintf("Signal configured for %s traffic", level),
	}
}
