package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
)

// Import persists an already-structured course document. Extraction and
// synthesis are skipped; narration and persistence run with their contracts
// unchanged. Every episode gets narration built from its leading scenes.
func (p *implPipeline) Import(ctx context.Context, structured domain.StructuredCourse, voiceID string) (*Summary, error) {
	start := time.Now()
	runID := p.runs.create()

	p.logger.Info(ctx, "Starting course import: %s (run %s, %d episodes)",
		structured.Title, runID, len(structured.Episodes))

	content := flattenStructured(structured)

	courseID := uuid.New()
	p.runs.setCourse(runID, courseID)

	// Narration text per episode is the leading scene slice, not the full
	// script used for duration estimates.
	p.runs.setStep(runID, domain.StepNarrating)
	narrationSegments := make([]domain.Segment, len(structured.Episodes))
	for i, ep := range structured.Episodes {
		narrationSegments[i] = domain.Segment{
			Title:  ep.Title,
			Script: leadingScenes(ep.Scenes, p.cfg.Import.SceneLimit),
		}
	}
	assets := p.narrateSegments(ctx, courseID, narrationSegments, voiceID, len(narrationSegments))

	p.runs.setStep(runID, domain.StepPersisting)
	course := domain.Course{
		ID:          courseID,
		Title:       structured.Title,
		Description: structured.Description,
	}
	persisted := p.persister.Persist(ctx, course, content, assets)

	summary := p.summarize(runID, course, content, assets, persisted, false)
	summary.CompanionPath = p.exportCompanion(ctx, course, content)

	p.runs.complete(runID)

	p.logger.Info(ctx, "Course import completed: %s in %s", courseID, time.Since(start))
	return summary, nil
}

// flattenStructured converts the import document into the shared generated
// content shape: one segment per episode, quiz pools concatenated in episode
// order.
func flattenStructured(structured domain.StructuredCourse) *domain.GeneratedContent {
	content := &domain.GeneratedContent{Summary: structured.Summary}

	for _, ep := range structured.Episodes {
		script := strings.Join(ep.Scenes, "\n\n")
		content.Segments = append(content.Segments, domain.Segment{
			Title:             ep.Title,
			Script:            script,
			KeyPoints:         ep.KeyPoints,
			EstimatedDuration: timing.EstimateSeconds(script),
		})
		content.QuizQuestions = append(content.QuizQuestions, ep.Quizzes...)
	}

	return content
}

func leadingScenes(scenes []string, limit int) string {
	if limit > 0 && limit < len(scenes) {
		scenes = scenes[:limit]
	}
	return strings.Join(scenes, "\n\n")
}

func (p *implPipeline) Run(id string) (domain.Run, bool) {
	return p.runs.get(id)
}

func (p *implPipeline) Runs() []domain.Run {
	return p.runs.list()
}
