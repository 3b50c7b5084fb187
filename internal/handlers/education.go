package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
	"mentora-backend/internal/services"
)

type educationService interface {
	StartProcess(ctx context.Context, userID, topic string, processType models.ProcessType) (*models.EducationSession, error)
	GetProcess(ctx context.Context, id uuid.UUID) (*models.EducationSession, error)
	Advance(ctx context.Context, id uuid.UUID, userInput string) (*services.AdvanceResult, error)
	SuggestNextStep(ctx context.Context, id uuid.UUID, score *float64, apply bool) (*services.Suggestion, error)
	ListProcesses(ctx context.Context, userID string, limit int) ([]*models.EducationSession, error)
	DeleteProcess(ctx context.Context, id uuid.UUID) error
}

type EducationHandler struct {
	svc educationService
}

func NewEducationHandler(svc educationService) *EducationHandler {
	return &EducationHandler{svc: svc}
}

func (h *EducationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.ProcessType == "" {
		req.ProcessType = string(models.ProcessFundamentalExplanation)
	}

	userID := middleware.GetUserID(r.Context())
	session, err := h.svc.StartProcess(r.Context(), userID, req.Topic, models.ProcessType(req.ProcessType))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	currentStep, _ := session.CurrentStep()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"process_id":   session.ID,
		"process_type": session.ProcessType,
		"steps":        session.Steps,
		"current_step": currentStep,
	})
}

func (h *EducationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid process ID", r))
		return
	}

	session, err := h.svc.GetProcess(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var currentStep *models.StepType
	if step, ok := session.CurrentStep(); ok {
		currentStep = &step
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"process_id":    session.ID,
		"user_id":       session.UserID,
		"topic":         session.Topic,
		"process_type":  session.ProcessType,
		"steps":         session.Steps,
		"current_index": session.CurrentIndex,
		"current_step":  currentStep,
		"completed":     session.IsComplete(),
		"history":       session.History,
		"created_at":    session.CreatedAt,
		"updated_at":    session.UpdatedAt,
	})
}

func (h *EducationHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid process ID", r))
		return
	}

	// Body is optional; an absent body means "advance without input".
	var req models.AdvanceProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userInput := ""
	if req.UserInput != nil {
		userInput = *req.UserInput
	}

	result, err := h.svc.Advance(r.Context(), id, userInput)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	payload := map[string]interface{}{
		"success":   true,
		"completed": result.Completed,
	}
	if result.Result != nil {
		payload["step_result"] = result.Result
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *EducationHandler) SuggestNextStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid process ID", r))
		return
	}

	var req models.SuggestNextStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sug, err := h.svc.SuggestNextStep(r.Context(), id, req.Score, req.Apply)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var suggestion *models.StepType
	if sug.Step != "" {
		suggestion = &sug.Step
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"completed":  sug.Completed,
		"suggestion": suggestion,
		"rationale":  sug.Rationale,
		"confidence": sug.Confidence,
		"applied":    sug.Applied,
	})
}

func (h *EducationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	sessions, err := h.svc.ListProcesses(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	processes := make([]models.ProcessSummary, 0, len(sessions))
	for _, s := range sessions {
		processes = append(processes, models.ProcessSummary{
			ProcessID:    s.ID,
			UserID:       s.UserID,
			Topic:        s.Topic,
			ProcessType:  s.ProcessType,
			CurrentIndex: s.CurrentIndex,
			Completed:    s.IsComplete(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     len(processes),
		"processes": processes,
	})
}

func (h *EducationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid process ID", r))
		return
	}

	if err := h.svc.DeleteProcess(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Process deleted"})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
