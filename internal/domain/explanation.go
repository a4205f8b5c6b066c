package domain

// ExplanationContext is the payload handed to the explanation LLM.
// @Description Context data for plan explanation generation.
type ExplanationContext struct {
	Context     TrainingContext `json:"context"`
	Plan        WeeklyPlan      `json:"plan"`
	Adjustments Adjustments     `json:"adjustments"`
}

// PlanExplanation is the structured natural-language output of the LLM.
// @Description LLM-generated explanation of a weekly plan.
type PlanExplanation struct {
	// Summary of the week (2-3 sentences)
	Summary string `json:"summary" example:"This week keeps your volume steady with one quality session..."`
	// Notable aspects of the plan (3-6 items)
	Highlights []string `json:"highlights" example:"[\"Sunday's long run anchors your aerobic base\"]"`
	// Practical guidance for executing the week (2-4 items)
	Guidance []string `json:"guidance" example:"[\"Keep easy days truly easy\"]"`
}

// ExplanationResponse is the response for the plan explanation endpoint.
// @Description Plan explanation with cache and quota metadata.
type ExplanationResponse struct {
	Explanation PlanExplanation `json:"explanation"`
	// Fingerprint of the context the explanation was generated for
	InputsHash string `json:"inputs_hash" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	// True when the explanation was served from the day cache
	Cached bool `json:"cached" example:"false"`
	// Remaining allowance metadata
	QuotaLimit int `json:"quota_limit" example:"5"`
	QuotaUsed  int `json:"quota_used" example:"2"`
	// When the daily quota and cache reset (next UTC midnight)
	ResetAt string `json:"reset_at" example:"2024-01-29T00:00:00.000Z"`
}