package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

func TestWriteCompanion(t *testing.T) {
	dir := t.TempDir()
	course := domain.Course{
		ID:          uuid.New(),
		Title:       "Intro to Databases",
		Description: "A generated course",
	}
	content := &domain.GeneratedContent{
		Summary: "Covers the basics of relational databases.",
		Segments: []domain.Segment{
			{Title: "Tables", Script: "Tables hold rows of data.", KeyPoints: []string{"rows", "columns"}},
			{Title: "Queries", Script: "Queries read data back out.", KeyPoints: []string{"select"}},
		},
		QuizQuestions: []domain.QuizQuestion{
			{
				Question:           "What holds rows?",
				Options:            []string{"Tables", "Queries", "Views", "Indexes"},
				CorrectAnswerIndex: 0,
				Explanation:        "Rows live in tables.",
				TriggerPercentage:  30,
			},
		},
	}

	path, err := WriteCompanion(course, content, dir)
	if err != nil {
		t.Fatalf("WriteCompanion() error = %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("companion written outside export dir: %s", path)
	}
	if !strings.HasSuffix(path, ".docx") {
		t.Errorf("companion path = %s, want .docx suffix", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat companion: %v", err)
	}
	if info.Size() == 0 {
		t.Error("companion document is empty")
	}
}

func TestCompanionFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		id    string
		want  string
	}{
		{"plain title", "Intro to Databases", "abcd1234-rest", "Intro_to_Databases_abcd1234.docx"},
		{"special characters dropped", "C++ & Go!", "abcd1234-rest", "C_Go_abcd1234.docx"},
		{"empty title", "???", "abcd1234-rest", "course_abcd1234.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := companionFilename(tt.title, tt.id); got != tt.want {
				t.Errorf("companionFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
