package synthesizer

import (
	"context"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// Synthesizer turns extracted source text into structured course content.
// It never fails: when the generative service is unavailable or returns
// non-conforming output it falls back to the deterministic generator. The
// boolean reports whether the fallback was used.
type Synthesizer interface {
	Synthesize(ctx context.Context, title, sourceText string) (*domain.GeneratedContent, bool)
}
