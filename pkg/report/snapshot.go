package report

import (
	"fmt"
	"path/filepath"

	"github.com/limaJavier/civics/pkg/genetic"
	"github.com/limaJavier/civics/pkg/model"
	"go.uber.org/zap"
)

// SnapshotObserver writes the best individual of every generation into generation_N directories
type SnapshotObserver struct {
	directory string
	catalog   *model.Catalog
	logger    *zap.Logger
	err       error
}

func NewSnapshotObserver(directory string, catalog *model.Catalog, logger *zap.Logger) *SnapshotObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotObserver{
		directory: directory,
		catalog:   catalog,
		logger:    logger,
	}
}

func GenerationDirectory(directory string, generation int) string {
	return filepath.Join(directory, fmt.Sprintf("generation_%d", generation))
}

func (observer *SnapshotObserver) Observe(report genetic.GenerationReport) {
	directory := GenerationDirectory(observer.directory, report.Generation)
	if err := WriteResults(directory, observer.catalog, report.Best); err != nil {
		observer.logger.Warn("cannot write generation snapshot", zap.Int("generation", report.Generation), zap.Error(err))
		if observer.err == nil {
			observer.err = err
		}
	}
}

// Err returns the first snapshot failure, if any
func (observer *SnapshotObserver) Err() error {
	return observer.err
}
