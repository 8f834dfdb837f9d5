package narrator

import (
	texttospeech "cloud.google.com/go/texttospeech/apiv1"

	"github.com/nguyentantai21042004/courseflow/internal/config"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
)

type implNarrator struct {
	client *texttospeech.Client
	cfg    config.NarrationConfig
	logger logger.Logger
}

// New creates a Narrator backed by the speech synthesis client. A nil client
// (missing credentials) is allowed; every Narrate call then reports no audio.
func New(client *texttospeech.Client, cfg config.NarrationConfig, log logger.Logger) Narrator {
	return &implNarrator{
		client: client,
		cfg:    cfg,
		logger: log.With("narrator"),
	}
}
