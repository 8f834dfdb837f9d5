package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/timing"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteCompanion writes a printable companion document for a generated
// course: summary, per-episode key points and the quiz questions. Returns
// the written file path.
func WriteCompanion(course domain.Course, content *domain.GeneratedContent, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", err
	}

	addStyledRun(doc.AddParagraph(""), course.Title, true, 16)
	if course.Description != "" {
		addStyledRun(doc.AddParagraph(""), course.Description, false, fontSize)
	}

	totalSeconds := timing.TotalSeconds(content.Segments)
	addStyledRun(doc.AddParagraph(""),
		fmt.Sprintf("%d episodes, about %d minutes", len(content.Segments), timing.DisplayMinutes(totalSeconds)),
		false, fontSize)

	if content.Summary != "" {
		addStyledRun(doc.AddParagraph(""), "Summary", true, 15)
		addStyledRun(doc.AddParagraph(""), content.Summary, false, fontSize)
	}

	for i, seg := range content.Segments {
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("Episode %d: %s", i+1, seg.Title), true, 15)
		for _, point := range seg.KeyPoints {
			addStyledRun(doc.AddParagraph(""), "• "+point, false, fontSize)
		}
	}

	if len(content.QuizQuestions) > 0 {
		addStyledRun(doc.AddParagraph(""), "Quiz questions", true, 15)
		for i, q := range content.QuizQuestions {
			addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", i+1, q.Question), true, fontSize)
			for oi, option := range q.Options {
				marker := "  "
				if oi == q.CorrectAnswerIndex {
					marker = "✓ "
				}
				addStyledRun(doc.AddParagraph(""), marker+option, false, fontSize)
			}
			if q.Explanation != "" {
				addStyledRun(doc.AddParagraph(""), q.Explanation, false, fontSize)
			}
		}
	}

	path := filepath.Join(outputDir, companionFilename(course.Title, course.ID.String()))
	if err := doc.SaveTo(path); err != nil {
		return "", fmt.Errorf("save companion document: %w", err)
	}

	return path, nil
}

// companionFilename builds a filesystem-safe name from the course title,
// suffixed with the course id to keep exports unique.
func companionFilename(title, courseID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, title)

	safe = strings.Join(strings.FieldsFunc(safe, func(r rune) bool { return r == '_' }), "_")
	if safe == "" {
		safe = "course"
	}

	short := courseID
	if len(short) > 8 {
		short = short[:8]
	}

	return safe + "_" + short + ".docx"
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
