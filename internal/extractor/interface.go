package extractor

import (
	"context"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// Result is the text form of a source document.
type Result struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
}

// Extractor converts a source document into plain text. Extraction is the
// only pipeline step whose failure aborts a run.
type Extractor interface {
	Extract(ctx context.Context, doc domain.SourceDocument) (*Result, error)
}
