package dto

type GraphResponse struct {
	Status     string `json:"status"`
	Graph      string `json:"graph"` // base64 PNG
	DataPoints int    `json:"data_points"`
}
