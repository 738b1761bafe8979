package repository

import (
	"context"

	"logbook-creator/internal/domain/entity"
)

// FlightRecordRepository defines the interface for flight record storage
type FlightRecordRepository interface {
	SaveAll(ctx context.Context, records []entity.FlightRecord) error
	FindAll(ctx context.Context) ([]entity.FlightRecord, error)
}
