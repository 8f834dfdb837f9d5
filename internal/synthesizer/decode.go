package synthesizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// ParseGenerated extracts the first balanced JSON object from free-form model
// output and validates it against the GeneratedContent schema. Any deviation
// is an error; callers treat that as a degradation signal.
func ParseGenerated(raw string) (*domain.GeneratedContent, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var content domain.GeneratedContent
	if err := json.Unmarshal([]byte(obj), &content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	if err := validate(&content); err != nil {
		return nil, err
	}

	return &content, nil
}

// extractJSONObject returns the first balanced {...} span in text, skipping
// braces inside JSON string literals.
func extractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}

func validate(content *domain.GeneratedContent) error {
	if len(content.Segments) == 0 {
		return fmt.Errorf("no segments")
	}
	for i, seg := range content.Segments {
		if strings.TrimSpace(seg.Script) == "" {
			return fmt.Errorf("segment %d has an empty script", i+1)
		}
	}
	for i, q := range content.QuizQuestions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("quiz %d has an empty question", i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Errorf("quiz %d has %d options, want 4", i+1, len(q.Options))
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("quiz %d has correct answer index %d out of range", i+1, q.CorrectAnswerIndex)
		}
		if q.TriggerPercentage < 0 || q.TriggerPercentage > 100 {
			return fmt.Errorf("quiz %d has trigger percentage %d out of range", i+1, q.TriggerPercentage)
		}
	}
	return nil
}
