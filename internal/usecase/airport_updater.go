package usecase

import (
	"context"
	"errors"
	"fmt"

	"logbook-creator/internal/domain/repository"
	"logbook-creator/pkg/logger"
)

// ErrNoAirports is returned when the download yields no usable rows
var ErrNoAirports = errors.New("no airports with IATA and ICAO codes")

// AirportUpdater refreshes the local airport table from the upstream database
type AirportUpdater struct {
	source repository.AirportSource
	stores []repository.AirportStore
	logger logger.Logger
}

// NewAirportUpdater creates an updater writing to every store in order
func NewAirportUpdater(source repository.AirportSource, logger logger.Logger, stores ...repository.AirportStore) *AirportUpdater {
	return &AirportUpdater{
		source: source,
		stores: stores,
		logger: logger,
	}
}

// Update downloads the airports and saves them. Nothing is written when the download fails or is empty.
func (u *AirportUpdater) Update(ctx context.Context) (int, error) {
	airports, err := u.source.FetchAirports(ctx)
	if err != nil {
		return 0, err
	}
	if len(airports) == 0 {
		return 0, ErrNoAirports
	}

	for _, store := range u.stores {
		if err := store.SaveAirports(ctx, airports); err != nil {
			return 0, fmt.Errorf("failed to save airports to %T: %w", store, err)
		}
	}

	u.logger.Info("Airport table updated", "airports", len(airports), "stores", len(u.stores))
	return len(airports), nil
}
