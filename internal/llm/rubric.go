package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const rubricTemperature = 0.3

// RubricScore is the LLM grade of an artifact.
type RubricScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ScoreRubric asks the model to grade with a rubric prompt. The prompt must request a
// `{"score": 0-100, "reason": "..."}` JSON object.
func ScoreRubric(ctx context.Context, c Client, prompt string) (*RubricScore, error) {
	resp, err := c.Chat(ctx, ChatRequest{
		Messages:       []Message{{Role: "user", Content: prompt}},
		Temperature:    rubricTemperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("could not get rubric score: %w", err)
	}

	return ParseRubricScore(resp.Content)
}

// ParseRubricScore decodes a rubric JSON answer.
func ParseRubricScore(content string) (*RubricScore, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw struct {
		Score  *float64 `json:"score"`
		Reason string   `json:"reason"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("invalid rubric answer: %w", err)
	}
	if raw.Score == nil {
		return nil, fmt.Errorf("rubric answer missing score")
	}
	if *raw.Score < 0 || *raw.Score > 100 {
		return nil, fmt.Errorf("rubric score %v out of range", *raw.Score)
	}

	return &RubricScore{Score: int(*raw.Score), Reason: raw.Reason}, nil
}
