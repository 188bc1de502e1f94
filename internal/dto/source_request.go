package dto

type SwitchSourceRequest struct {
	Source string `json:"source"`
}
