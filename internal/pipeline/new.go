package pipeline

import (
	"github.com/nguyentantai21042004/courseflow/internal/bucket"
	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/extractor"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
	"github.com/nguyentantai21042004/courseflow/internal/narrator"
	"github.com/nguyentantai21042004/courseflow/internal/store"
	"github.com/nguyentantai21042004/courseflow/internal/synthesizer"
)

type implPipeline struct {
	cfg         *config.Config
	extractor   extractor.Extractor
	synthesizer synthesizer.Synthesizer
	narrator    narrator.Narrator
	audioStore  bucket.Store
	persister   store.Persister
	logger      logger.Logger
	runs        *runRegistry
}

// New creates a new Pipeline instance
func New(cfg *config.Config, ext extractor.Extractor, synth synthesizer.Synthesizer, narr narrator.Narrator, audioStore bucket.Store, persister store.Persister, log logger.Logger) Pipeline {
	return &implPipeline{
		cfg:         cfg,
		extractor:   ext,
		synthesizer: synth,
		narrator:    narr,
		audioStore:  audioStore,
		persister:   persister,
		logger:      log.With("pipeline"),
		runs:        newRunRegistry(),
	}
}
