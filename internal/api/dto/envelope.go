package dto

// Envelope is the uniform response wrapper for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKWithMessage wraps a successful payload with a human-readable note.
func OKWithMessage(data any, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// Err wraps a failure message.
func Err(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
