package services

import "mentora-backend/internal/models"

var defaultWorkflows = map[models.ProcessType][]models.StepType{
	models.ProcessFundamentalExplanation: {
		models.StepExplain,
		models.StepExample,
		models.StepExercise,
		models.StepEvaluate,
		models.StepFeedback,
	},
	models.ProcessGuidedPractice: {
		models.StepExample,
		models.StepExercise,
		models.StepFeedback,
	},
	models.ProcessAssessment: {
		models.StepExercise,
		models.StepEvaluate,
		models.StepFeedback,
	},
}

// WorkflowFor returns the step sequence for a process type. Unknown types
// fall back to the fundamental explanation workflow. The returned slice is
// a copy; callers may insert steps without touching the catalog.
func WorkflowFor(processType models.ProcessType) []models.StepType {
	steps, ok := defaultWorkflows[processType]
	if !ok {
		steps = defaultWorkflows[models.ProcessFundamentalExplanation]
	}
	out := make([]models.StepType, len(steps))
	copy(out, steps)
	return out
}
