package repository

import (
	"context"
	"errors"

	"logbook-creator/internal/domain/entity"
)

// ErrReferenceData marks a reference table that could not be read. The process cannot continue without it.
var ErrReferenceData = errors.New("reference data unavailable")

// AirportRepository loads the IATA reference table
type AirportRepository interface {
	LoadAirports(ctx context.Context) (entity.AirportTable, error)
}

// AircraftRepository loads the fleet reference table
type AircraftRepository interface {
	LoadAircraft(ctx context.Context) (entity.AircraftTable, error)
}

// AirportStore persists a refreshed airport table
type AirportStore interface {
	SaveAirports(ctx context.Context, airports []entity.Airport) error
}

// AirportSource downloads the upstream airport database
type AirportSource interface {
	FetchAirports(ctx context.Context) ([]entity.Airport, error)
}
