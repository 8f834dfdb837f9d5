package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/courseflow/internal/bucket"
	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/exporter"
	"github.com/nguyentantai21042004/courseflow/internal/store"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
)

// Generate orchestrates one full document-to-course run:
// extract -> synthesize -> narrate -> persist. Extraction failure aborts the
// run; every later step degrades instead of failing.
func (p *implPipeline) Generate(ctx context.Context, req GenerateRequest) (*Summary, error) {
	start := time.Now()
	runID := p.runs.create()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting course generation: %s (run %s)", req.Title, runID)
	p.logger.Info(ctx, "========================================")

	// Step 1: Extract text from the document
	p.runs.setStep(runID, domain.StepExtracting)
	extracted, err := p.extractor.Extract(ctx, req.Document)
	if err != nil {
		extErr := &ExtractionError{Err: err}
		p.runs.fail(runID, extErr)
		p.logger.Error(ctx, "Run %s failed: %v", runID, extErr)
		return nil, extErr
	}

	// Step 2: Synthesize structured content; falls back internally
	p.runs.setStep(runID, domain.StepSynthesizing)
	content, degraded := p.synthesizer.Synthesize(ctx, req.Title, extracted.Text)

	// The course id is the run's join key for every child record
	courseID := uuid.New()
	p.runs.setCourse(runID, courseID)

	// Step 3: Narrate segments; missing audio is a skip, not a failure
	p.runs.setStep(runID, domain.StepNarrating)
	assets := p.narrateSegments(ctx, courseID, content.Segments, req.VoiceID, p.narrationLimit(len(content.Segments)))

	// Step 4: Persist the entity graph, best-effort
	p.runs.setStep(runID, domain.StepPersisting)
	course := domain.Course{
		ID:          courseID,
		Title:       req.Title,
		Description: req.Description,
	}
	persisted := p.persister.Persist(ctx, course, content, assets)

	summary := p.summarize(runID, course, content, assets, persisted, degraded)
	summary.CompanionPath = p.exportCompanion(ctx, course, content)

	p.runs.complete(runID)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Course generation completed: %s", courseID)
	p.logger.Info(ctx, "Episodes: %d, quizzes: %d, audio: %d, degraded: %v",
		summary.EpisodesCreated, summary.QuizzesCreated, summary.AudioEpisodes, degraded)
	p.logger.Info(ctx, "Processing time: %s", time.Since(start))
	p.logger.Info(ctx, "========================================")

	return summary, nil
}

// narrationLimit resolves how many leading segments receive narration.
// A negative max narrates everything.
func (p *implPipeline) narrationLimit(segments int) int {
	limit := p.cfg.Narration.MaxSegments
	if limit < 0 || limit > segments {
		return segments
	}
	return limit
}

// narrateSegments synthesizes and uploads narration for the first limit
// segments. Segments are independent, so narration tasks run concurrently,
// bounded by performance.max_concurrent.
func (p *implPipeline) narrateSegments(ctx context.Context, courseID uuid.UUID, segments []domain.Segment, voiceID string, limit int) map[int]domain.AudioAsset {
	assets := make(map[int]domain.AudioAsset)
	if limit == 0 || len(segments) == 0 {
		return assets
	}

	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i := 0; i < limit && i < len(segments); i++ {
		wg.Add(1)
		go func(idx int, seg domain.Segment) {
			defer wg.Done()

			if err := sem.acquire(ctx); err != nil {
				return
			}
			defer sem.release()

			audio, ok := p.narrator.Narrate(ctx, seg.Script, voiceID)
			if !ok {
				return
			}

			key := bucket.AudioKey(courseID.String(), fmt.Sprintf("episode_%d", idx+1))
			url, err := p.audioStore.Put(ctx, key, audio, "audio/mpeg")
			if err != nil {
				p.logger.Warn(ctx, "Failed to upload narration for episode %d: %v", idx+1, err)
				return
			}

			mu.Lock()
			assets[idx] = domain.AudioAsset{URL: url, ByteSize: len(audio)}
			mu.Unlock()
		}(i, segments[i])
	}

	wg.Wait()
	p.logger.Info(ctx, "Narration completed: %d/%d segments have audio", len(assets), limit)
	return assets
}

// exportCompanion writes the printable companion document. Failures are
// logged only.
func (p *implPipeline) exportCompanion(ctx context.Context, course domain.Course, content *domain.GeneratedContent) string {
	if p.cfg.Paths.Exports == "" {
		return ""
	}

	path, err := exporter.WriteCompanion(course, content, p.cfg.Paths.Exports)
	if err != nil {
		p.logger.Warn(ctx, "Failed to export companion document: %v", err)
		return ""
	}

	p.logger.Info(ctx, "Companion document: %s", path)
	return path
}

func (p *implPipeline) summarize(runID string, course domain.Course, content *domain.GeneratedContent, assets map[int]domain.AudioAsset, persisted *store.Result, degraded bool) *Summary {
	return &Summary{
		RunID:           runID,
		CourseID:        course.ID,
		Title:           course.Title,
		Episodes:        persisted.Episodes,
		EpisodesCreated: persisted.EpisodesCreated,
		QuizzesCreated:  persisted.QuizzesCreated,
		AudioEpisodes:   len(assets),
		TotalSeconds:    timing.TotalSeconds(content.Segments),
		Degraded:        degraded,
		Failures:        persisted.Failures,
	}
}
