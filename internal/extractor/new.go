package extractor

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
	"github.com/nguyentantai21042004/courseflow/pkg/executor"
)

type implExtractor struct {
	cfg      config.ExtractorConfig
	executor executor.Executor
	logger   logger.Logger
	client   *http.Client
}

// New creates a new Extractor instance
func New(cfg config.ExtractorConfig, exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		cfg:      cfg,
		executor: exec,
		logger:   log.With("extractor"),
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}
