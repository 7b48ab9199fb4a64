// Package api holds the response envelopes shared by the swagger
// annotations across handlers.
package api

type ErrorResponse struct {
	Error string `json:"error" example:"invoice not found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ValidationErrorResponse carries per-field messages from request binding.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}
