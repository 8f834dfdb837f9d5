package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"cloud.google.com/go/storage"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nguyentantai21042004/courseflow/internal/bucket"
	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/extractor"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
	"github.com/nguyentantai21042004/courseflow/internal/narrator"
	"github.com/nguyentantai21042004/courseflow/internal/pipeline"
	"github.com/nguyentantai21042004/courseflow/internal/store"
	"github.com/nguyentantai21042004/courseflow/internal/synthesizer"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
	"github.com/nguyentantai21042004/courseflow/internal/watcher"
	"github.com/nguyentantai21042004/courseflow/pkg/executor"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	// Secrets (API keys, DB password) come from the environment
	_ = godotenv.Load()

	switch os.Args[1] {
	case "generate":
		runGenerate(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "watch":
		runWatch(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pipeline generate -title TITLE [-desc DESC] [-voice VOICE] -file DOCUMENT")
	fmt.Fprintln(os.Stderr, "  pipeline import [-voice VOICE] -file COURSE_JSON")
	fmt.Fprintln(os.Stderr, "  pipeline watch")
}

func runGenerate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	title := fs.String("title", "", "course title")
	desc := fs.String("desc", "", "course description")
	voice := fs.String("voice", "", "narration voice id")
	file := fs.String("file", "", "path to the source document")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "generate: -file is required")
		os.Exit(2)
	}

	cfg, log := mustSetup(ctx, *configPath)
	p := mustPipeline(ctx, cfg, log)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Error(ctx, "Failed to read document: %v", err)
		os.Exit(1)
	}

	courseTitle := *title
	if courseTitle == "" {
		courseTitle = titleFromPath(*file)
	}

	summary, err := p.Generate(ctx, pipeline.GenerateRequest{
		Title:       courseTitle,
		Description: *desc,
		VoiceID:     *voice,
		Document: domain.SourceDocument{
			Title:    courseTitle,
			Filename: filepath.Base(*file),
			MimeType: mimeForPath(*file),
			Data:     data,
		},
	})
	if err != nil {
		log.Error(ctx, "Generation failed: %v", err)
		os.Exit(1)
	}

	printSummary(summary)
}

func runImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	voice := fs.String("voice", "", "narration voice id")
	file := fs.String("file", "", "path to the structured course JSON")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "import: -file is required")
		os.Exit(2)
	}

	cfg, log := mustSetup(ctx, *configPath)
	p := mustPipeline(ctx, cfg, log)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Error(ctx, "Failed to read course document: %v", err)
		os.Exit(1)
	}

	var structured domain.StructuredCourse
	if err := json.Unmarshal(data, &structured); err != nil {
		log.Error(ctx, "Failed to parse course document: %v", err)
		os.Exit(1)
	}
	if structured.Title == "" {
		structured.Title = titleFromPath(*file)
	}

	summary, err := p.Import(ctx, structured, *voice)
	if err != nil {
		log.Error(ctx, "Import failed: %v", err)
		os.Exit(1)
	}

	printSummary(summary)
}

func runWatch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	voice := fs.String("voice", "", "narration voice id")
	fs.Parse(args)

	cfg, log := mustSetup(ctx, *configPath)
	p := mustPipeline(ctx, cfg, log)

	if err := os.MkdirAll(cfg.Paths.Inbox, 0755); err != nil {
		log.Error(ctx, "Failed to create inbox directory: %v", err)
		os.Exit(1)
	}

	handler := func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		title := titleFromPath(path)
		summary, err := p.Generate(ctx, pipeline.GenerateRequest{
			Title:   title,
			VoiceID: *voice,
			Document: domain.SourceDocument{
				Title:    title,
				Filename: filepath.Base(path),
				MimeType: mimeForPath(path),
				Data:     data,
			},
		})
		if err != nil {
			return err
		}

		printSummary(summary)
		return nil
	}

	w, err := watcher.New(cfg.Paths.Inbox, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Course pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Exports: %s", cfg.Paths.Exports)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	cancel()
	log.Info(ctx, "Course pipeline stopped")
}

func mustSetup(ctx context.Context, configPath string) (*config.Config, logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "Configuration loaded successfully")
	return cfg, log
}

// mustPipeline wires every component. The database is required; the speech
// and storage clients are optional and their absence degrades narration.
func mustPipeline(ctx context.Context, cfg *config.Config, log logger.Logger) pipeline.Pipeline {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.User, os.Getenv("DB_PASSWORD"),
		cfg.Database.Name, cfg.Database.Port, cfg.Database.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := store.Migrate(db); err != nil {
		log.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}

	ttsClient, err := texttospeech.NewClient(ctx)
	if err != nil {
		log.Warn(ctx, "Speech client unavailable, narration disabled: %v", err)
		ttsClient = nil
	}

	var storageClient *storage.Client
	if cfg.Storage.Bucket != "" {
		storageClient, err = storage.NewClient(ctx)
		if err != nil {
			log.Warn(ctx, "Storage client unavailable, audio uploads disabled: %v", err)
			storageClient = nil
		}
	} else {
		log.Warn(ctx, "No storage bucket configured, audio uploads disabled")
	}

	apiKeys := splitKeys(os.Getenv("GEMINI_API_KEYS"))
	if len(apiKeys) == 0 {
		log.Warn(ctx, "GEMINI_API_KEYS not set, content synthesis will use the fallback generator")
	}

	return pipeline.New(
		cfg,
		extractor.New(cfg.Extractor, executor.New(), log),
		synthesizer.New(apiKeys, *cfg, log),
		narrator.New(ttsClient, cfg.Narration, log),
		bucket.New(storageClient, cfg.Storage.Bucket, log),
		store.New(db, log),
		log,
	)
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("Course created: %s\n", s.CourseID)
	fmt.Printf("Title:          %s\n", s.Title)
	fmt.Printf("Episodes:       %d (%d with audio)\n", s.EpisodesCreated, s.AudioEpisodes)
	fmt.Printf("Quiz questions: %d\n", s.QuizzesCreated)
	fmt.Printf("Duration:       ~%d min\n", timing.DisplayMinutes(s.TotalSeconds))
	if s.Degraded {
		fmt.Println("Note: generative synthesis was unavailable, fallback content was used")
	}
	if s.CompanionPath != "" {
		fmt.Printf("Companion:      %s\n", s.CompanionPath)
	}
	for _, ep := range s.Episodes {
		audio := ""
		if ep.AudioURL != "" {
			audio = " [audio]"
		}
		fmt.Printf("  %2d. %s (%ds)%s\n", ep.Order, ep.Title, ep.DurationSeconds, audio)
	}
	if len(s.Failures) > 0 {
		fmt.Printf("Warnings: %d record(s) failed to persist\n", len(s.Failures))
		for _, f := range s.Failures {
			fmt.Printf("  - %s: %v\n", f.Record, f.Err)
		}
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".md":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
