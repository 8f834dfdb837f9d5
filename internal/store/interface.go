package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// Failure describes one record that could not be written.
type Failure struct {
	Record string
	Err    error
}

// Result enumerates what one Persist call wrote and what it could not.
// Persistence is best-effort, not transactional: callers inspect Failures to
// decide whether to retry or clean up.
type Result struct {
	CourseID        uuid.UUID
	CourseCreated   bool
	Episodes        []domain.Episode
	EpisodesCreated int
	QuizzesCreated  int
	Failures        []Failure
}

// Persister writes the generated entity graph: one course, one episode per
// segment, and the quiz questions distributed across episodes. Audio assets
// are keyed by segment index.
type Persister interface {
	Persist(ctx context.Context, course domain.Course, content *domain.GeneratedContent, assets map[int]domain.AudioAsset) *Result
}
