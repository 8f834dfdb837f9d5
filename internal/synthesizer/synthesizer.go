package synthesizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
)

const contentPrompt = `You are an educational content designer. Turn the source material below into an interactive audio course.

Requirements:
- Split the material into exactly %d segments, each a self-contained lesson
- Rewrite every segment as natural spoken narration in a %s tone; do not quote the source verbatim
- Keep each segment script between 150 and 400 words
- Give every segment a short title and 2-4 key points
- Write exactly %d multiple-choice quiz questions about the material, each with exactly 4 options, the index of the correct option, and a short explanation
- Spread the quiz trigger percentages across playback (around 30, 60 and 90)
- Write a 2-3 sentence course summary

Respond with a single JSON object and nothing else:
{"summary": "...", "segments": [{"title": "...", "script": "...", "keyPoints": ["..."]}], "quizQuestions": [{"question": "...", "options": ["...", "...", "...", "..."], "correctAnswerIndex": 0, "explanation": "...", "triggerPercentage": 30}]}

Course title: %s

Source material:
---
%s
---`

// Synthesize produces course content for the given source text. The primary
// path asks Gemini for a structured response; any failure between the request
// and schema validation degrades to the deterministic fallback generator.
func (s *implSynthesizer) Synthesize(ctx context.Context, title, sourceText string) (*domain.GeneratedContent, bool) {
	truncated := truncate(sourceText, s.cfg.Content.PromptBudget)

	content, err := s.generate(ctx, title, truncated)
	if err != nil {
		s.logger.Warn(ctx, "Generative synthesis degraded, using fallback: %v", err)
		return s.fallback(title, sourceText), true
	}

	s.normalize(content)
	s.logger.Info(ctx, "Synthesized %d segments and %d quiz questions",
		len(content.Segments), len(content.QuizQuestions))
	return content, false
}

// generate runs one structured-generation request and validates the result.
func (s *implSynthesizer) generate(ctx context.Context, title, sourceText string) (*domain.GeneratedContent, error) {
	if len(s.apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys configured")
	}

	prompt := fmt.Sprintf(contentPrompt,
		s.cfg.Content.Segments, s.cfg.Content.Tone, s.cfg.Content.Quizzes, title, sourceText)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Gemini.TimeoutSeconds)*time.Second)
	defer cancel()

	raw, err := s.callGemini(ctx, prompt)
	if err != nil {
		return nil, err
	}

	content, err := ParseGenerated(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}

	return content, nil
}

// callGemini sends the prompt to Gemini and returns the raw response text.
// Rotates API keys on 429 / quota errors.
func (s *implSynthesizer) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSynthesizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

// normalize recomputes per-segment duration estimates; model-reported values
// are not trusted.
func (s *implSynthesizer) normalize(content *domain.GeneratedContent) {
	for i := range content.Segments {
		content.Segments[i].EstimatedDuration = timing.EstimateSeconds(content.Segments[i].Script)
	}
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
