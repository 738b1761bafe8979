package usecase

import (
	"fmt"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"
	"logbook-creator/pkg/logger"
)

// LogbookReorganizer re-sorts the rows already in the workbook
type LogbookReorganizer struct {
	workbook repository.LogbookWriter
	logger   logger.Logger
}

// NewLogbookReorganizer creates a new reorganizer
func NewLogbookReorganizer(workbook repository.LogbookWriter, logger logger.Logger) *LogbookReorganizer {
	return &LogbookReorganizer{
		workbook: workbook,
		logger:   logger,
	}
}

// Reorganize reads every row, sorts by date and departure time and rebuilds the sheets.
// A malformed row aborts before anything is written.
func (r *LogbookReorganizer) Reorganize() (int, error) {
	records, err := r.workbook.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read logbook: %w", err)
	}

	if err := entity.SortFlightRecords(records); err != nil {
		return 0, err
	}

	if err := r.workbook.Rebuild(records); err != nil {
		return 0, fmt.Errorf("failed to rebuild logbook: %w", err)
	}

	r.logger.Info("Logbook reorganized", "flights", len(records))
	return len(records), nil
}
