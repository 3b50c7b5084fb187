package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessType names the pedagogical workflow variant a session follows.
type ProcessType string

const (
	ProcessFundamentalExplanation ProcessType = "fundamental_explanation"
	ProcessGuidedPractice         ProcessType = "guided_practice"
	ProcessAssessment             ProcessType = "assessment"
)

func (p ProcessType) Valid() bool {
	switch p {
	case ProcessFundamentalExplanation, ProcessGuidedPractice, ProcessAssessment:
		return true
	}
	return false
}

// StepType is one unit of a workflow.
type StepType string

const (
	StepExplain  StepType = "explain"
	StepExample  StepType = "example"
	StepExercise StepType = "exercise"
	StepEvaluate StepType = "evaluate"
	StepFeedback StepType = "feedback"
)

// StepResult records one completed step, stored inside the session's history.
type StepResult struct {
	Step      StepType               `json:"step"`
	Content   string                 `json:"content"`
	Context   map[string]interface{} `json:"context"`
	CreatedAt time.Time              `json:"created_at"`
}

// EducationSession mirrors one row of education_sessions.
// created_at and updated_at are owned by the database; updated_at is
// refreshed by a trigger on every update.
type EducationSession struct {
	ID           uuid.UUID    `json:"id"`
	UserID       string       `json:"user_id"`
	Topic        string       `json:"topic"`
	ProcessType  ProcessType  `json:"process_type"`
	Steps        []StepType   `json:"steps"`
	CurrentIndex int          `json:"current_index"`
	History      []StepResult `json:"history"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CurrentStep returns the step at the cursor. ok is false once the
// session is complete or the cursor is out of range.
func (s *EducationSession) CurrentStep() (StepType, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Steps) {
		return "", false
	}
	return s.Steps[s.CurrentIndex], true
}

func (s *EducationSession) IsComplete() bool {
	return s.CurrentIndex >= len(s.Steps)
}
