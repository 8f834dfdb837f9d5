package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/store"
)

// GenerateRequest is one "document to course" job.
type GenerateRequest struct {
	Title       string
	Description string
	Document    domain.SourceDocument
	VoiceID     string
}

// Summary is what a finished run reports back to the caller.
type Summary struct {
	RunID           string
	CourseID        uuid.UUID
	Title           string
	Episodes        []domain.Episode
	EpisodesCreated int
	QuizzesCreated  int
	AudioEpisodes   int
	TotalSeconds    int
	Degraded        bool
	Failures        []store.Failure
	CompanionPath   string
}

// Pipeline turns source documents into persisted courses. Generate runs the
// full extract/synthesize/narrate/persist sequence; Import skips straight to
// narration and persistence for pre-structured course documents. Only
// extraction failures are returned as errors.
type Pipeline interface {
	Generate(ctx context.Context, req GenerateRequest) (*Summary, error)
	Import(ctx context.Context, course domain.StructuredCourse, voiceID string) (*Summary, error)

	// Run reports the tracked state of one execution; Runs lists them all.
	Run(id string) (domain.Run, bool)
	Runs() []domain.Run
}
