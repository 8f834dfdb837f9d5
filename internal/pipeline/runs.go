package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// Progress reported at each state transition.
var stepProgress = map[string]int{
	domain.StepExtracting:   10,
	domain.StepSynthesizing: 35,
	domain.StepNarrating:    60,
	domain.StepPersisting:   80,
}

// runRegistry tracks concurrent pipeline executions. Runs are kept in memory
// only; the persisted course does not depend on them.
type runRegistry struct {
	mu   sync.RWMutex
	runs map[string]*domain.Run
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]*domain.Run)}
}

func (r *runRegistry) create() string {
	run := &domain.Run{
		ID:        uuid.NewString(),
		Status:    domain.RunStatusQueued,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()

	return run.ID
}

func (r *runRegistry) setStep(id, step string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return
	}
	run.Status = domain.RunStatusRunning
	run.CurrentStep = step
	run.Progress = stepProgress[step]
}

func (r *runRegistry) setCourse(id string, courseID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run, ok := r.runs[id]; ok {
		run.CourseID = courseID
	}
}

func (r *runRegistry) complete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return
	}
	run.Status = domain.RunStatusCompleted
	run.CurrentStep = ""
	run.Progress = 100
	run.FinishedAt = time.Now()
}

func (r *runRegistry) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return
	}
	run.Status = domain.RunStatusFailed
	run.Error = err.Error()
	run.FinishedAt = time.Now()
}

// get returns a copy of one run.
func (r *runRegistry) get(id string) (domain.Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return domain.Run{}, false
	}
	return *run, true
}

// list returns copies of every tracked run.
func (r *runRegistry) list() []domain.Run {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, *run)
	}
	return out
}
