package synthesizer

import (
	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
)

type implSynthesizer struct {
	apiKeys    []string
	currentKey int
	cfg        config.Config
	logger     logger.Logger
	model      string
}

// New creates a Synthesizer that rotates through the supplied Gemini API keys.
// With no keys it always produces fallback content.
func New(apiKeys []string, cfg config.Config, log logger.Logger) Synthesizer {
	return &implSynthesizer{
		apiKeys: apiKeys,
		cfg:     cfg,
		logger:  log.With("synthesizer"),
		model:   cfg.Gemini.Model,
	}
}
