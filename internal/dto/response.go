package dto

import "time"

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// ValidationResponse carries per-field messages plus the rejected input so
// the client can redisplay the form as submitted.
type ValidationResponse struct {
	Ok     bool              `json:"ok"`
	Errors map[string]string `json:"errors"`
	Input  interface{}       `json:"input"`
}

func NewValidationResponse(field string, message string, input interface{}) ValidationResponse {
	return ValidationResponse{
		Ok:     false,
		Errors: map[string]string{field: message},
		Input:  input,
	}
}
