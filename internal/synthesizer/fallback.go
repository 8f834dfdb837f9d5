package synthesizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
)

const minParagraphChars = 30

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

var fallbackTriggers = []int{30, 60, 90}

// fallback deterministically builds course content from the raw source text.
// Paragraphs are distributed into contiguous buckets, one bucket per segment.
func (s *implSynthesizer) fallback(title, sourceText string) *domain.GeneratedContent {
	numSegments := s.cfg.Content.Segments
	if numSegments < 1 {
		numSegments = 1
	}

	paragraphs := splitParagraphs(sourceText)

	content := &domain.GeneratedContent{
		Summary:       fallbackSummary(title, paragraphs),
		Segments:      fallbackSegments(title, paragraphs, numSegments),
		QuizQuestions: fallbackQuizzes(title, s.cfg.Content.Quizzes),
	}

	for i := range content.Segments {
		content.Segments[i].EstimatedDuration = timing.EstimateSeconds(content.Segments[i].Script)
	}

	return content
}

// splitParagraphs cuts source text on blank-line boundaries and discards
// fragments too short to carry content.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphSplit.Split(text, -1) {
		p = strings.TrimSpace(p)
		if len(p) < minParagraphChars {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}

func fallbackSegments(title string, paragraphs []string, numSegments int) []domain.Segment {
	// Empty input degenerates to a single introduction segment.
	if len(paragraphs) == 0 {
		return []domain.Segment{{
			Title: "Introduction",
			Script: fmt.Sprintf("Welcome to %s. This course walks through the source material step by step. "+
				"Each episode covers one part of the content, with quiz questions along the way to check your understanding.", title),
			KeyPoints: []string{"Course overview", "How episodes are organized"},
		}}
	}

	bucketSize := (len(paragraphs) + numSegments - 1) / numSegments

	segments := make([]domain.Segment, 0, numSegments)
	for i := 0; i < numSegments; i++ {
		from := i * bucketSize
		to := min((i+1)*bucketSize, len(paragraphs))

		if from >= len(paragraphs) {
			// Fewer paragraphs than requested segments: pad with a placeholder.
			segments = append(segments, domain.Segment{
				Title: fmt.Sprintf("Part %d", i+1),
				Script: fmt.Sprintf("This part of %s revisits the material covered so far. "+
					"Take a moment to review the key points from the previous episodes before moving on.", title),
				KeyPoints: []string{"Review of earlier material"},
			})
			continue
		}

		bucket := paragraphs[from:to]
		segments = append(segments, domain.Segment{
			Title:     fmt.Sprintf("Part %d", i+1),
			Script:    strings.Join(bucket, "\n\n"),
			KeyPoints: keyPoints(bucket),
		})
	}

	return segments
}

// keyPoints takes the opening sentence of up to three paragraphs.
func keyPoints(paragraphs []string) []string {
	points := make([]string, 0, 3)
	for _, p := range paragraphs {
		if len(points) == 3 {
			break
		}
		sentence := p
		if idx := strings.IndexAny(p, ".!?"); idx > 0 {
			sentence = p[:idx+1]
		}
		if len(sentence) > 120 {
			sentence = sentence[:120]
		}
		points = append(points, strings.TrimSpace(sentence))
	}
	return points
}

func fallbackSummary(title string, paragraphs []string) string {
	if len(paragraphs) == 0 {
		return fmt.Sprintf("An introductory course generated from %s.", title)
	}

	lead := paragraphs[0]
	if len(lead) > 200 {
		lead = lead[:200]
	}
	return fmt.Sprintf("%s: a course covering %s", title, strings.TrimSpace(lead))
}

// fallbackQuizzes produces templated comprehension questions, cycling the
// canned trigger percentages.
func fallbackQuizzes(title string, count int) []domain.QuizQuestion {
	templates := []string{
		"What is the best way to approach the material in %q?",
		"While listening to %q, what should you do when a concept is unclear?",
		"After finishing an episode of %q, what helps the material stick?",
	}

	quizzes := make([]domain.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		quizzes = append(quizzes, domain.QuizQuestion{
			Question: fmt.Sprintf(templates[i%len(templates)], title),
			Options: []string{
				"Work through it step by step and connect it to what came before",
				"Skip ahead to the final episode",
				"Memorize isolated phrases without context",
				"Avoid the quiz questions entirely",
			},
			CorrectAnswerIndex: 0,
			Explanation:        "Building on earlier material in order is the most reliable way to absorb new content.",
			TriggerPercentage:  fallbackTriggers[i%len(fallbackTriggers)],
		})
	}

	return quizzes
}
