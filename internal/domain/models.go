package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SourceDocument is the raw input handed to a generation run. It lives only
// for the duration of the run.
type SourceDocument struct {
	Title    string
	Filename string
	MimeType string
	Data     []byte
}

// Segment is one unit of synthesized narration, later mapped 1:1 to an Episode.
type Segment struct {
	Title             string   `json:"title"`
	Script            string   `json:"script"`
	KeyPoints         []string `json:"keyPoints"`
	EstimatedDuration int      `json:"estimatedDuration"`
}

// QuizQuestion as produced by the synthesizer. TriggerPercentage is the point
// (0-100) in an episode's playback at which the question is presented.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
	TriggerPercentage  int      `json:"triggerPercentage"`
}

// GeneratedContent is the full output of one synthesis pass. Immutable after
// synthesis; discarded once persisted.
type GeneratedContent struct {
	Summary       string         `json:"summary"`
	Segments      []Segment      `json:"segments"`
	QuizQuestions []QuizQuestion `json:"quizQuestions"`
}

// AudioAsset references narration audio uploaded for one episode.
type AudioAsset struct {
	EpisodeID uuid.UUID
	URL       string
	ByteSize  int
}

// Persisted records. Created exactly once per run, never updated by the
// pipeline afterwards.

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"index"`
	Description string    `gorm:"type:text"`
	Summary     string    `gorm:"type:text"`
	Status      string    `gorm:"size:32"`
	CreatedAt   time.Time
}

type Episode struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID        uuid.UUID `gorm:"type:uuid;index"`
	Title           string
	Description     string `gorm:"type:text"`
	Order           int
	DurationSeconds int
	AudioURL        string `gorm:"size:1024"`
	Status          string `gorm:"size:32"`
	CreatedAt       time.Time
}

type EpisodeQuiz struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID           uuid.UUID `gorm:"type:uuid;index"`
	EpisodeID          uuid.UUID `gorm:"type:uuid;index"`
	Question           string    `gorm:"type:text"`
	Options            datatypes.JSON
	CorrectAnswerIndex int
	Explanation        string `gorm:"type:text"`
	TriggerPercentage  int
	CreatedAt          time.Time
}

func (EpisodeQuiz) TableName() string { return "quiz_questions" }

const (
	CourseStatusReady = "ready"

	EpisodeStatusReady = "ready"
)

// Run statuses and steps for one pipeline execution.
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"

	StepExtracting   = "extracting"
	StepSynthesizing = "synthesizing"
	StepNarrating    = "narrating"
	StepPersisting   = "persisting"
)

// Run tracks the lifecycle of one pipeline execution for external progress
// reporting. It is not persisted; correctness of the course does not depend
// on it.
type Run struct {
	ID          string
	CourseID    uuid.UUID
	Status      string
	CurrentStep string
	Progress    int
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// StructuredCourse is the import entry point's input: a pre-built course
// document with per-episode scenes and quiz sets.
type StructuredCourse struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Summary     string              `json:"summary"`
	Episodes    []StructuredEpisode `json:"episodes"`
}

type StructuredEpisode struct {
	Title     string         `json:"title"`
	Scenes    []string       `json:"scenes"`
	KeyPoints []string       `json:"keyPoints"`
	Quizzes   []QuizQuestion `json:"quizzes"`
}
