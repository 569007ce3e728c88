package dto

// MessageResponse is the {success, message} envelope used for errors and acknowledgements.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func Fail(message string) MessageResponse {
	return MessageResponse{Success: false, Message: message}
}

func OK(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}
