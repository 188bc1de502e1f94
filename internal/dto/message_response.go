package dto

const (
	StatusOK      = "ok"
	StatusSuccess = "success"
	StatusError   = "error"
)

// MessageResponse is the generic {"status","message"} reply.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewSuccess(message string) MessageResponse {
	return MessageResponse{Status: StatusSuccess, Message: message}
}

func NewError(message string) MessageResponse {
	return MessageResponse{Status: StatusError, Message: message}
}
