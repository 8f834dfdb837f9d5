package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/extractor"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
	"github.com/nguyentantai21042004/courseflow/internal/store"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, doc domain.SourceDocument) (*extractor.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &extractor.Result{Text: f.text, PageCount: 1}, nil
}

type fakeSynthesizer struct {
	content  *domain.GeneratedContent
	degraded bool
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, title, sourceText string) (*domain.GeneratedContent, bool) {
	return f.content, f.degraded
}

type fakeNarrator struct {
	mu    sync.Mutex
	calls []string
	audio []byte
}

func (f *fakeNarrator) Narrate(ctx context.Context, text, voiceID string) ([]byte, bool) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.audio == nil {
		return nil, false
	}
	return f.audio, true
}

func (f *fakeNarrator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeStore struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return "https://storage.googleapis.com/test/" + key, nil
}

type fakePersister struct {
	called  bool
	course  domain.Course
	content *domain.GeneratedContent
	assets  map[int]domain.AudioAsset
}

func (f *fakePersister) Persist(ctx context.Context, course domain.Course, content *domain.GeneratedContent, assets map[int]domain.AudioAsset) *store.Result {
	f.called = true
	f.course = course
	f.content = content
	f.assets = assets

	result := &store.Result{CourseID: course.ID, CourseCreated: true}
	for i, seg := range content.Segments {
		ep := domain.Episode{CourseID: course.ID, Title: seg.Title, Order: i + 1}
		if asset, ok := assets[i]; ok {
			ep.AudioURL = asset.URL
		}
		result.Episodes = append(result.Episodes, ep)
		result.EpisodesCreated++
	}
	result.QuizzesCreated = len(content.QuizQuestions)
	return result
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Content.Segments = 3
	cfg.Content.Quizzes = 3
	cfg.Narration.MaxSegments = 1
	cfg.Import.SceneLimit = 2
	cfg.Performance.MaxConcurrent = 2
	return cfg
}

func testContent(segments int) *domain.GeneratedContent {
	content := &domain.GeneratedContent{Summary: "summary"}
	for i := 0; i < segments; i++ {
		content.Segments = append(content.Segments, domain.Segment{
			Title:  fmt.Sprintf("Part %d", i+1),
			Script: fmt.Sprintf("Script for part %d.", i+1),
		})
	}
	content.QuizQuestions = []domain.QuizQuestion{
		{Question: "q", Options: []string{"a", "b", "c", "d"}, TriggerPercentage: 30},
	}
	return content
}

func testRequest() GenerateRequest {
	return GenerateRequest{
		Title:       "Test Course",
		Description: "desc",
		Document: domain.SourceDocument{
			Title:    "Test Course",
			Filename: "doc.pdf",
			MimeType: "application/pdf",
			Data:     []byte("bytes"),
		},
	}
}

func newTestPipeline(cfg *config.Config, ext *fakeExtractor, synth *fakeSynthesizer, narr *fakeNarrator, st *fakeStore, pers *fakePersister) Pipeline {
	return New(cfg, ext, synth, narr, st, pers, logger.New("error"))
}

func TestGenerateCompletes(t *testing.T) {
	narr := &fakeNarrator{audio: []byte("mp3")}
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{text: "extracted text"},
		&fakeSynthesizer{content: testContent(3)},
		narr, &fakeStore{}, pers)

	summary, err := p.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !pers.called {
		t.Fatal("persister was not called")
	}
	if summary.EpisodesCreated != 3 {
		t.Errorf("EpisodesCreated = %d, want 3", summary.EpisodesCreated)
	}
	if summary.AudioEpisodes != 1 {
		t.Errorf("AudioEpisodes = %d, want 1 (max_segments=1)", summary.AudioEpisodes)
	}
	if summary.CourseID != pers.course.ID {
		t.Error("summary course id does not match the persisted course")
	}

	run, ok := p.Run(summary.RunID)
	if !ok {
		t.Fatal("run not tracked")
	}
	if run.Status != domain.RunStatusCompleted {
		t.Errorf("run status = %q, want completed", run.Status)
	}
	if run.Progress != 100 {
		t.Errorf("run progress = %d, want 100", run.Progress)
	}
	if run.CourseID != summary.CourseID {
		t.Error("run course id does not match")
	}
}

func TestGenerateExtractionFailureIsFatal(t *testing.T) {
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{err: errors.New("status 502")},
		&fakeSynthesizer{content: testContent(3)},
		&fakeNarrator{}, &fakeStore{}, pers)

	_, err := p.Generate(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Generate() should fail when extraction fails")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("error type = %T, want *ExtractionError", err)
	}

	if pers.called {
		t.Error("no course may be created for a failed extraction")
	}

	runs := p.Runs()
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Status != domain.RunStatusFailed {
		t.Errorf("run status = %q, want failed", runs[0].Status)
	}
	if runs[0].Error == "" {
		t.Error("failed run should carry the error")
	}
}

func TestGenerateDegradedSynthesisStillCompletes(t *testing.T) {
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{text: "extracted text"},
		&fakeSynthesizer{content: testContent(3), degraded: true},
		&fakeNarrator{audio: []byte("mp3")}, &fakeStore{}, pers)

	summary, err := p.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !summary.Degraded {
		t.Error("summary should report degradation")
	}
	if summary.EpisodesCreated != 3 {
		t.Errorf("EpisodesCreated = %d, want 3", summary.EpisodesCreated)
	}
}

func TestGenerateNarrationUnavailable(t *testing.T) {
	narr := &fakeNarrator{} // audio nil: every call reports no audio
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{text: "extracted text"},
		&fakeSynthesizer{content: testContent(3)},
		narr, &fakeStore{}, pers)

	summary, err := p.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if summary.AudioEpisodes != 0 {
		t.Errorf("AudioEpisodes = %d, want 0", summary.AudioEpisodes)
	}
	if len(pers.assets) != 0 {
		t.Errorf("assets = %d, want none", len(pers.assets))
	}
	for _, ep := range summary.Episodes {
		if ep.AudioURL != "" {
			t.Error("episodes should persist without audio references")
		}
	}

	run, _ := p.Run(summary.RunID)
	if run.Status != domain.RunStatusCompleted {
		t.Errorf("run status = %q, want completed", run.Status)
	}
}

func TestGenerateUploadFailureSkipsAudio(t *testing.T) {
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{text: "extracted text"},
		&fakeSynthesizer{content: testContent(3)},
		&fakeNarrator{audio: []byte("mp3")},
		&fakeStore{err: errors.New("bucket unavailable")}, pers)

	summary, err := p.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if summary.AudioEpisodes != 0 {
		t.Errorf("AudioEpisodes = %d, want 0 when uploads fail", summary.AudioEpisodes)
	}
}

func TestNarrationLimit(t *testing.T) {
	tests := []struct {
		name        string
		maxSegments int
		segments    int
		wantCalls   int
	}{
		{"default first segment", 1, 3, 1},
		{"cap below count", 2, 5, 2},
		{"cap above count", 10, 3, 3},
		{"narrate everything", -1, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Narration.MaxSegments = tt.maxSegments

			narr := &fakeNarrator{audio: []byte("mp3")}
			p := newTestPipeline(cfg,
				&fakeExtractor{text: "text"},
				&fakeSynthesizer{content: testContent(tt.segments)},
				narr, &fakeStore{}, &fakePersister{})

			if _, err := p.Generate(context.Background(), testRequest()); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if narr.callCount() != tt.wantCalls {
				t.Errorf("narrator calls = %d, want %d", narr.callCount(), tt.wantCalls)
			}
		})
	}
}

func TestAudioKeysUseCourseID(t *testing.T) {
	st := &fakeStore{}
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{text: "text"},
		&fakeSynthesizer{content: testContent(2)},
		&fakeNarrator{audio: []byte("mp3")}, st, pers)

	summary, err := p.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(st.keys) != 1 {
		t.Fatalf("uploads = %d, want 1", len(st.keys))
	}
	want := "courses/" + summary.CourseID.String() + "/audio/episode_1.mp3"
	if st.keys[0] != want {
		t.Errorf("upload key = %q, want %q", st.keys[0], want)
	}
}

func TestImport(t *testing.T) {
	narr := &fakeNarrator{audio: []byte("mp3")}
	pers := &fakePersister{}
	p := newTestPipeline(testConfig(),
		&fakeExtractor{}, &fakeSynthesizer{}, narr, &fakeStore{}, pers)

	structured := domain.StructuredCourse{
		Title:       "Imported Course",
		Description: "imported",
		Summary:     "summary",
		Episodes: []domain.StructuredEpisode{
			{
				Title:  "One",
				Scenes: []string{"scene a", "scene b", "scene c"},
				Quizzes: []domain.QuizQuestion{
					{Question: "q1", Options: []string{"a", "b", "c", "d"}, TriggerPercentage: 30},
				},
			},
			{
				Title:  "Two",
				Scenes: []string{"scene d"},
				Quizzes: []domain.QuizQuestion{
					{Question: "q2", Options: []string{"a", "b", "c", "d"}, TriggerPercentage: 60},
				},
			},
		},
	}

	summary, err := p.Import(context.Background(), structured, "")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	// Every episode is narrated in the import flow
	if narr.callCount() != 2 {
		t.Fatalf("narrator calls = %d, want 2", narr.callCount())
	}

	// Narration text is the leading scene slice (scene_limit = 2)
	found := false
	for _, call := range narr.calls {
		if call == "scene a\n\nscene b" {
			found = true
		}
		if strings.Contains(call, "scene c") {
			t.Errorf("narration used scenes past the slice limit: %q", call)
		}
	}
	if !found {
		t.Errorf("no narration call used the leading scenes, calls = %q", narr.calls)
	}

	// Quiz pools are concatenated in episode order
	if len(pers.content.QuizQuestions) != 2 {
		t.Fatalf("quiz pool = %d, want 2", len(pers.content.QuizQuestions))
	}
	if pers.content.QuizQuestions[0].Question != "q1" || pers.content.QuizQuestions[1].Question != "q2" {
		t.Error("quiz pool not in episode order")
	}

	if summary.EpisodesCreated != 2 {
		t.Errorf("EpisodesCreated = %d, want 2", summary.EpisodesCreated)
	}

	run, _ := p.Run(summary.RunID)
	if run.Status != domain.RunStatusCompleted {
		t.Errorf("run status = %q, want completed", run.Status)
	}
}

func TestConcurrentRunsAreIsolated(t *testing.T) {
	p := newTestPipeline(testConfig(),
		&fakeExtractor{text: "text"},
		&fakeSynthesizer{content: testContent(2)},
		&fakeNarrator{audio: []byte("mp3")}, &fakeStore{}, &fakePersister{})

	const runs = 4
	var wg sync.WaitGroup
	ids := make([]string, runs)

	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summary, err := p.Generate(context.Background(), testRequest())
			if err != nil {
				t.Errorf("Generate() error = %v", err)
				return
			}
			ids[i] = summary.CourseID.String()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("course id %s reused across runs", id)
		}
		seen[id] = true
	}

	if len(p.Runs()) != runs {
		t.Errorf("tracked runs = %d, want %d", len(p.Runs()), runs)
	}
}
