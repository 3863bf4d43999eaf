package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Generator is the external text-generation capability. Implementations are
// expected (by contract, not structurally) to answer comparison prompts with
// a JSON object holding "summary" and "highlights".
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// maxPromptTextChars bounds how much of each report is sent to the
// generator. A cost and latency cap, not a correctness requirement.
const maxPromptTextChars = 2000

var (
	ErrEmptyGeneration     = errors.New("empty response from generator")
	ErrMalformedGeneration = errors.New("generator response is not valid JSON")
	ErrSchemaViolation     = errors.New("generator response missing summary or highlights")
)

// Comparison is the parsed and validated generator output for one
// adjacent-week pair.
type Comparison struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

// Comparator produces a structured comparison of two report texts through
// the generator, then validates the result before trusting it.
type Comparator struct {
	gen Generator
}

func NewComparator(gen Generator) *Comparator {
	return &Comparator{gen: gen}
}

// Compare asks the generator for a week-over-week comparison and parses the
// reply. Any call, parse, or schema failure is terminal; no retry, no
// partial result.
func (c *Comparator) Compare(ctx context.Context, previousText, currentText string, weekNumber int) (*Comparison, error) {
	prompt := buildComparisonPrompt(previousText, currentText, weekNumber)

	raw, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	return parseComparison(raw)
}

func buildComparisonPrompt(previousText, currentText string, weekNumber int) string {
	return fmt.Sprintf(`Compare Week %d vs Week %d reports.

Week %d Report:
%s

Week %d Report:
%s

Please provide:
1. A comprehensive summary highlighting key changes, anomalies, and trends
2. A list of 3-5 key highlights in bullet points

Format your response as JSON with exactly these keys:
{
    "summary": "Your detailed summary here...",
    "highlights": ["Highlight 1", "Highlight 2", "Highlight 3"]
}`,
		weekNumber, weekNumber-1,
		weekNumber-1, truncateText(previousText, maxPromptTextChars),
		weekNumber, truncateText(currentText, maxPromptTextChars))
}

// parseComparison validates the generator reply. Models routinely wrap JSON
// in a markdown code fence, so that is stripped before parsing.
func parseComparison(raw string) (*Comparison, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))
	if raw == "" {
		return nil, ErrEmptyGeneration
	}

	var result Comparison
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}

	if strings.TrimSpace(result.Summary) == "" || len(result.Highlights) == 0 {
		return nil, ErrSchemaViolation
	}

	return &result, nil
}

func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
