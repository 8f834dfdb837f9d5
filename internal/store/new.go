package store

import (
	"gorm.io/gorm"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
	"github.com/nguyentantai21042004/courseflow/internal/logger"
)

type implPersister struct {
	db     *gorm.DB
	logger logger.Logger
}

// New creates a new Persister instance
func New(db *gorm.DB, log logger.Logger) Persister {
	return &implPersister{
		db:     db,
		logger: log.With("store"),
	}
}

// Migrate creates the course tables if they do not exist yet.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Course{}, &domain.Episode{}, &domain.EpisodeQuiz{})
}
