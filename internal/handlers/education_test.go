package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mentora-backend/internal/middleware"
	"mentora-backend/internal/models"
	"mentora-backend/internal/services"
)

type fakeEducationService struct {
	session   *models.EducationSession
	advance   *services.AdvanceResult
	sug       *services.Suggestion
	err       error
	lastInput string
}

func (f *fakeEducationService) StartProcess(_ context.Context, userID, topic string, pt models.ProcessType) (*models.EducationSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeEducationService) GetProcess(_ context.Context, _ uuid.UUID) (*models.EducationSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeEducationService) Advance(_ context.Context, _ uuid.UUID, userInput string) (*services.AdvanceResult, error) {
	f.lastInput = userInput
	if f.err != nil {
		return nil, f.err
	}
	return f.advance, nil
}

func (f *fakeEducationService) SuggestNextStep(_ context.Context, _ uuid.UUID, _ *float64, _ bool) (*services.Suggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sug, nil
}

func (f *fakeEducationService) ListProcesses(_ context.Context, _ string, _ int) ([]*models.EducationSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.session == nil {
		return nil, nil
	}
	return []*models.EducationSession{f.session}, nil
}

func (f *fakeEducationService) DeleteProcess(_ context.Context, _ uuid.UUID) error {
	return f.err
}

func testRouter(svc educationService) http.Handler {
	h := NewEducationHandler(svc)
	r := chi.NewRouter()
	r.Route("/processes", func(r chi.Router) {
		r.Post("/", h.Start)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/advance", h.Advance)
		r.Post("/{id}/suggest-next-step", h.SuggestNextStep)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func withUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func sampleSession() *models.EducationSession {
	return &models.EducationSession{
		ID:          uuid.New(),
		UserID:      "u1",
		Topic:       "fractions",
		ProcessType: models.ProcessFundamentalExplanation,
		Steps:       []models.StepType{models.StepExplain, models.StepExample},
		History:     []models.StepResult{},
	}
}

func TestStartProcess(t *testing.T) {
	svc := &fakeEducationService{session: sampleSession()}
	router := testRouter(svc)

	body, _ := json.Marshal(map[string]string{"topic": "fractions", "process_type": "socratic"})
	req := withUser(httptest.NewRequest(http.MethodPost, "/processes", bytes.NewReader(body)), "u1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["success"] != true {
		t.Error("Expected success true")
	}
	if resp["current_step"] != "explain" {
		t.Errorf("Expected current_step 'explain', got %v", resp["current_step"])
	}
}

func TestStartProcessValidationError(t *testing.T) {
	svc := &fakeEducationService{err: &services.ValidationError{Fields: map[string]string{"topic": "required"}}}
	router := testRouter(svc)

	body, _ := json.Marshal(map[string]string{})
	req := withUser(httptest.NewRequest(http.MethodPost, "/processes", bytes.NewReader(body)), "u1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
	}
	if resp.Error.Fields["topic"] != "required" {
		t.Errorf("Expected topic field error, got %v", resp.Error.Fields)
	}
}

func TestGetProcessNotFound(t *testing.T) {
	svc := &fakeEducationService{err: &services.NotFoundError{Message: "process not found"}}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/processes/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rr.Code)
	}
}

func TestGetProcessInvalidID(t *testing.T) {
	router := testRouter(&fakeEducationService{})

	req := httptest.NewRequest(http.MethodGet, "/processes/not-a-uuid", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
}

func TestAdvanceWithoutBody(t *testing.T) {
	svc := &fakeEducationService{
		advance: &services.AdvanceResult{
			Completed: false,
			Result:    &models.StepResult{Step: models.StepExplain, Content: "..."},
		},
	}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/processes/"+uuid.NewString()+"/advance", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastInput != "" {
		t.Errorf("Expected empty user input, got %q", svc.lastInput)
	}

	var resp map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&resp)
	if _, ok := resp["step_result"]; !ok {
		t.Error("Expected step_result in payload")
	}
}

func TestAdvancePassesUserInput(t *testing.T) {
	svc := &fakeEducationService{advance: &services.AdvanceResult{Completed: true}}
	router := testRouter(svc)

	body, _ := json.Marshal(map[string]string{"user_input": "1/2"})
	req := httptest.NewRequest(http.MethodPost, "/processes/"+uuid.NewString()+"/advance", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if svc.lastInput != "1/2" {
		t.Errorf("Expected user input '1/2', got %q", svc.lastInput)
	}
}

func TestSuggestNextStepPayload(t *testing.T) {
	svc := &fakeEducationService{
		sug: &services.Suggestion{
			Step:       models.StepExercise,
			Rationale:  "practice",
			Confidence: 0.7,
		},
	}
	router := testRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"score": 0.7})
	req := httptest.NewRequest(http.MethodPost, "/processes/"+uuid.NewString()+"/suggest-next-step", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["suggestion"] != "exercise" {
		t.Errorf("Expected suggestion 'exercise', got %v", resp["suggestion"])
	}
	if resp["applied"] != false {
		t.Errorf("Expected applied false, got %v", resp["applied"])
	}
}

func TestListProcesses(t *testing.T) {
	svc := &fakeEducationService{session: sampleSession()}
	router := testRouter(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/processes?limit=10", nil), "u1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp struct {
		Success   bool                    `json:"success"`
		Count     int                     `json:"count"`
		Processes []models.ProcessSummary `json:"processes"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Processes) != 1 {
		t.Fatalf("Expected one process, got count=%d len=%d", resp.Count, len(resp.Processes))
	}
	if resp.Processes[0].UserID != "u1" {
		t.Errorf("Expected user u1, got %q", resp.Processes[0].UserID)
	}
}

func TestDeleteProcess(t *testing.T) {
	router := testRouter(&fakeEducationService{})

	req := httptest.NewRequest(http.MethodDelete, "/processes/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
}
