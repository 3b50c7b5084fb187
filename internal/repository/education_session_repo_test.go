package repository

import (
	"encoding/json"
	"testing"

	"mentora-backend/internal/models"
)

func TestMarshalOrEmptyArray(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil steps slice", []models.StepType(nil), "[]"},
		{"nil history slice", []models.StepResult(nil), "[]"},
		{"populated steps", []models.StepType{models.StepExplain, models.StepExample}, `["explain","example"]`},
		{"empty slice", []models.StepType{}, "[]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := marshalOrEmptyArray(tc.value)
			if err != nil {
				t.Fatalf("marshalOrEmptyArray returned error: %v", err)
			}
			if string(data) != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, string(data))
			}
		})
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	history := []models.StepResult{
		{
			Step:    models.StepEvaluate,
			Content: "Evaluation of the response: score=0.50.",
			Context: map[string]interface{}{"score": 0.5, "user_input": nil},
		},
	}

	data, err := marshalOrEmptyArray(history)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var decoded []models.StepResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(decoded) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(decoded))
	}
	if decoded[0].Step != models.StepEvaluate {
		t.Errorf("Expected step %q, got %q", models.StepEvaluate, decoded[0].Step)
	}
	if score, ok := decoded[0].Context["score"].(float64); !ok || score != 0.5 {
		t.Errorf("Expected score 0.5 in context, got %v", decoded[0].Context["score"])
	}
}
