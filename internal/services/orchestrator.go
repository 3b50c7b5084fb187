package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mentora-backend/internal/models"
)

type sessionStore interface {
	Create(ctx context.Context, s *models.EducationSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EducationSession, error)
	Save(ctx context.Context, s *models.EducationSession) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.EducationSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Orchestrator drives pedagogical workflows: it resolves the step
// sequence for a process type, generates content for each step, and keeps
// the session row current. Timestamps on the row are maintained by the
// database, not here.
type Orchestrator struct {
	sessions sessionStore
	content  ContentGenerator
	progress *ProgressPublisher
}

func NewOrchestrator(sessions sessionStore, content ContentGenerator, progress *ProgressPublisher) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		content:  content,
		progress: progress,
	}
}

func (o *Orchestrator) StartProcess(ctx context.Context, userID, topic string, processType models.ProcessType) (*models.EducationSession, error) {
	fields := map[string]string{}
	if userID == "" {
		fields["user_id"] = "required"
	}
	if strings.TrimSpace(topic) == "" {
		fields["topic"] = "required"
	}
	if !processType.Valid() {
		fields["process_type"] = "must be fundamental_explanation, guided_practice, or assessment"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	steps := WorkflowFor(processType)
	session := &models.EducationSession{
		UserID:      userID,
		Topic:       topic,
		ProcessType: processType,
		Steps:       steps,
		History:     []models.StepResult{},
	}

	if err := o.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	o.progress.Publish(ctx, userID, models.ProgressEvent{
		ProcessID:  session.ID,
		Status:     "started",
		Step:       steps[0],
		Percentage: 0,
		Log:        "Process started",
	})
	return session, nil
}

func (o *Orchestrator) GetProcess(ctx context.Context, id uuid.UUID) (*models.EducationSession, error) {
	session, err := o.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "process not found"}
		}
		return nil, err
	}
	return session, nil
}

type AdvanceResult struct {
	Completed bool
	Result    *models.StepResult
	Session   *models.EducationSession
}

// Advance executes the step at the cursor, appends the outcome to the
// history and moves the cursor forward. Advancing a completed session is
// a no-op, not an error.
func (o *Orchestrator) Advance(ctx context.Context, id uuid.UUID, userInput string) (*AdvanceResult, error) {
	session, err := o.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.IsComplete() {
		return &AdvanceResult{Completed: true, Session: session}, nil
	}

	step, _ := session.CurrentStep()

	var score *float64
	if step == models.StepEvaluate {
		s := 0.5
		if userInput != "" {
			s = 1.0
		}
		score = &s
	}

	content, err := o.content.StepContent(ctx, session.Topic, step, userInput)
	if err != nil {
		log.Printf("Content generation failed for process %s step %s: %v", id, step, err)
		content = templateContent(session.Topic, step)
	}

	stepCtx := map[string]interface{}{"user_input": userInput}
	if score != nil {
		stepCtx["score"] = *score
	}

	result := models.StepResult{
		Step:      step,
		Content:   content,
		Context:   stepCtx,
		CreatedAt: time.Now().UTC(),
	}

	session.History = append(session.History, result)
	session.CurrentIndex++

	if err := o.save(ctx, session); err != nil {
		return nil, err
	}

	status := "in_progress"
	if session.IsComplete() {
		status = "completed"
	}
	o.progress.Publish(ctx, session.UserID, models.ProgressEvent{
		ProcessID:  session.ID,
		Status:     status,
		Step:       step,
		Percentage: 100 * session.CurrentIndex / len(session.Steps),
		Log:        fmt.Sprintf("Step %s completed", step),
	})

	return &AdvanceResult{
		Completed: session.IsComplete(),
		Result:    &result,
		Session:   session,
	}, nil
}

type Suggestion struct {
	Completed  bool
	Step       models.StepType
	Rationale  string
	Confidence float64
	Applied    bool
}

// SuggestNextStep recommends what to do next based on the most recent
// evaluation score. With apply set, the suggestion is inserted at the
// cursor so it becomes the next step.
func (o *Orchestrator) SuggestNextStep(ctx context.Context, id uuid.UUID, score *float64, apply bool) (*Suggestion, error) {
	session, err := o.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.IsComplete() {
		return &Suggestion{Completed: true}, nil
	}

	lastScore := score
	if lastScore == nil {
		for i := len(session.History) - 1; i >= 0; i-- {
			h := session.History[i]
			if h.Step != models.StepEvaluate {
				continue
			}
			if v, ok := h.Context["score"].(float64); ok {
				lastScore = &v
				break
			}
		}
	}

	suggestion, _ := session.CurrentStep()
	rationale := "Proceed along the planned workflow."
	confidence := 0.6

	if lastScore != nil {
		switch {
		case *lastScore < 0.6:
			suggestion = models.StepExample
			if containsStep(session.Steps, models.StepExplain) {
				suggestion = models.StepExplain
			}
			rationale = fmt.Sprintf("Low performance (score=%.2f); reinforce with explanation or example.", *lastScore)
			confidence = 0.8
		case *lastScore < 0.85:
			suggestion = models.StepExercise
			rationale = fmt.Sprintf("Moderate performance (score=%.2f); practice with another exercise.", *lastScore)
			confidence = 0.7
		default:
			suggestion = models.StepFeedback
			rationale = fmt.Sprintf("High performance (score=%.2f); consolidate with feedback and finish.", *lastScore)
			confidence = 0.75
		}
	}

	applied := false
	if apply && suggestion != "" {
		// Direct writers can leave the cursor out of range; clamp
		// before slicing.
		cursor := session.CurrentIndex
		if cursor < 0 {
			cursor = 0
		} else if cursor > len(session.Steps) {
			cursor = len(session.Steps)
		}
		steps := make([]models.StepType, 0, len(session.Steps)+1)
		steps = append(steps, session.Steps[:cursor]...)
		steps = append(steps, suggestion)
		steps = append(steps, session.Steps[cursor:]...)
		session.Steps = steps

		if err := o.save(ctx, session); err != nil {
			return nil, err
		}
		applied = true
	}

	return &Suggestion{
		Step:       suggestion,
		Rationale:  rationale,
		Confidence: confidence,
		Applied:    applied,
	}, nil
}

func (o *Orchestrator) ListProcesses(ctx context.Context, userID string, limit int) ([]*models.EducationSession, error) {
	return o.sessions.ListByUser(ctx, userID, limit)
}

func (o *Orchestrator) DeleteProcess(ctx context.Context, id uuid.UUID) error {
	return o.sessions.Delete(ctx, id)
}

func (o *Orchestrator) save(ctx context.Context, session *models.EducationSession) error {
	if err := o.sessions.Save(ctx, session); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "process not found"}
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func containsStep(steps []models.StepType, step models.StepType) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}
