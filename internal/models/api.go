package models

import "github.com/google/uuid"

type StartProcessRequest struct {
	Topic       string `json:"topic"`
	ProcessType string `json:"process_type"`
}

type AdvanceProcessRequest struct {
	UserInput *string `json:"user_input"`
}

type SuggestNextStepRequest struct {
	Score *float64 `json:"score"`
	Apply bool     `json:"apply"`
}

type ProcessSummary struct {
	ProcessID    uuid.UUID   `json:"process_id"`
	UserID       string      `json:"user_id"`
	Topic        string      `json:"topic"`
	ProcessType  ProcessType `json:"process_type"`
	CurrentIndex int         `json:"current_index"`
	Completed    bool        `json:"completed"`
}

// ProgressEvent is published over Redis and delivered to the owning
// user's WebSocket connections.
type ProgressEvent struct {
	ProcessID  uuid.UUID `json:"process_id"`
	Status     string    `json:"status"` // "started" | "in_progress" | "completed"
	Step       StepType  `json:"step"`
	Percentage int       `json:"percentage"`
	Log        string    `json:"log,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
