package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/runcoach/training-planner/internal/domain"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a non-medical running coach assistant.

You receive a deterministic weekly training plan, the aggregated training signals it was computed from, and the list of adjustments that shaped it. You must base your explanation only on the provided data.

Your goals:
- Explain in plain language why this week looks the way it does.
- Connect each adjustment to the signal that triggered it.
- Describe the role of the long run, quality work, and easy days in this specific week.
- Keep the tone encouraging and concrete.

Rules:
- Do NOT provide medical advice or diagnoses.
- Do NOT invent sessions, numbers, or adjustments that are not in the data.
- Do NOT second-guess the plan; explain it.
- Be concise.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences explaining the overall shape of the week.",
  "highlights": [
    "3-6 bullet points connecting plan decisions to the signals and adjustments.",
    "At least one item about the long run placement or duration.",
    "If any adjustment fired, one item per adjustment explaining it."
  ],
  "guidance": [
    "2-4 concrete, non-medical execution tips tailored to this week."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing the generated weekly plan.

- "context" holds the aggregated training signals and the runner's profile.
- "plan" is the final 7-day schedule with per-day sessions and a summary.
- "adjustments" lists the rule-triggered modifications in the order they were applied.

JSON:

%s

Based on this data, respond in the required JSON format.`

// PlanExplainer is the interface for generating plan explanations using an LLM.
type PlanExplainer interface {
	// ExplainPlan takes an explanation context and returns the structured explanation.
	ExplainPlan(ctx context.Context, explCtx *domain.ExplanationContext) (*domain.PlanExplanation, error)
}

// OpenAIClient implements PlanExplainer using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for generating explanations.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// ExplainPlan calls OpenAI to generate a plan explanation.
func (c *OpenAIClient) ExplainPlan(ctx context.Context, explCtx *domain.ExplanationContext) (*domain.PlanExplanation, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	// Serialize context to JSON
	contextJSON, err := json.MarshalIndent(explCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	// Call OpenAI
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	// Parse the JSON response
	var output domain.PlanExplanation
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}
