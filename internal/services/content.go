package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mentora-backend/internal/models"
)

// ContentGenerator produces the text for one workflow step.
type ContentGenerator interface {
	StepContent(ctx context.Context, topic string, step models.StepType, userInput string) (string, error)
	Close()
}

// TemplateGenerator emits deterministic content. Used when no Gemini API
// key is configured, and as the fallback when generation fails.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator { return &TemplateGenerator{} }

func (g *TemplateGenerator) StepContent(_ context.Context, topic string, step models.StepType, _ string) (string, error) {
	return templateContent(topic, step), nil
}

func (g *TemplateGenerator) Close() {}

func templateContent(topic string, step models.StepType) string {
	switch step {
	case models.StepExplain:
		return fmt.Sprintf("Explanation of the topic '%s' based on relevant sources.", topic)
	case models.StepExample:
		return fmt.Sprintf("Worked example about '%s'.", topic)
	case models.StepExercise:
		return fmt.Sprintf("Proposed exercise: solve a problem related to '%s'.", topic)
	case models.StepEvaluate:
		return "Evaluation of the submitted answer."
	case models.StepFeedback:
		return "Objective feedback and next steps."
	}
	return ""
}

// GeminiGenerator builds step content with Gemini Flash.
type GeminiGenerator struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiGenerator(apiKey string, concurrentReqs int) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiGenerator{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (g *GeminiGenerator) Close() {
	g.client.Close()
}

func (g *GeminiGenerator) StepContent(ctx context.Context, topic string, step models.StepType, userInput string) (string, error) {
	if err := g.acquireRate(ctx); err != nil {
		return "", err
	}
	defer g.releaseRate()

	resp, err := g.model.GenerateContent(ctx, genai.Text(stepPrompt(topic, step, userInput)))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("gemini returned empty content for step %s", step)
	}
	return text, nil
}

// acquireRate blocks until a rate slot is available
func (g *GeminiGenerator) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (g *GeminiGenerator) releaseRate() {
	g.rateChan <- struct{}{}
}

func stepPrompt(topic string, step models.StepType, userInput string) string {
	var b strings.Builder
	b.WriteString("You are a tutor guiding a student through the topic: ")
	b.WriteString(topic)
	b.WriteString(".\n")

	switch step {
	case models.StepExplain:
		b.WriteString("Explain the core concepts clearly, in a few short paragraphs.")
	case models.StepExample:
		b.WriteString("Give one fully worked example.")
	case models.StepExercise:
		b.WriteString("Pose one exercise for the student to solve. Do not include the solution.")
	case models.StepEvaluate:
		b.WriteString("Evaluate the student's answer below. Be specific about what is right and wrong.")
	case models.StepFeedback:
		b.WriteString("Summarize how the session went and suggest what to study next.")
	}

	if userInput != "" {
		b.WriteString("\n\nStudent's answer:\n")
		b.WriteString(userInput)
	}
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
