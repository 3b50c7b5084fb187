package services

import (
	"testing"

	"mentora-backend/internal/models"
)

func TestWorkflowFor(t *testing.T) {
	tests := []struct {
		name        string
		processType models.ProcessType
		expected    []models.StepType
	}{
		{
			"fundamental explanation",
			models.ProcessFundamentalExplanation,
			[]models.StepType{models.StepExplain, models.StepExample, models.StepExercise, models.StepEvaluate, models.StepFeedback},
		},
		{
			"guided practice",
			models.ProcessGuidedPractice,
			[]models.StepType{models.StepExample, models.StepExercise, models.StepFeedback},
		},
		{
			"assessment",
			models.ProcessAssessment,
			[]models.StepType{models.StepExercise, models.StepEvaluate, models.StepFeedback},
		},
		{
			"unknown type falls back",
			models.ProcessType("montessori"),
			[]models.StepType{models.StepExplain, models.StepExample, models.StepExercise, models.StepEvaluate, models.StepFeedback},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			steps := WorkflowFor(tc.processType)
			if len(steps) != len(tc.expected) {
				t.Fatalf("Expected %d steps, got %d", len(tc.expected), len(steps))
			}
			for i, s := range steps {
				if s != tc.expected[i] {
					t.Errorf("Step %d: expected %q, got %q", i, tc.expected[i], s)
				}
			}
		})
	}
}

func TestWorkflowForReturnsCopy(t *testing.T) {
	steps := WorkflowFor(models.ProcessAssessment)
	steps[0] = models.StepFeedback

	again := WorkflowFor(models.ProcessAssessment)
	if again[0] != models.StepExercise {
		t.Errorf("Catalog mutated through returned slice: got %q", again[0])
	}
}
