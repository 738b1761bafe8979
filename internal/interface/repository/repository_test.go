package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFlightDocument(t *testing.T) {
	record := entity.FlightRecord{
		Date:             "2024/05/10",
		DepartureAirport: "EIDW",
		ArrivalAirport:   "EGSS",
		DepartureTime:    "08:15",
		DateTime:         time.Date(2024, 5, 10, 8, 15, 0, 0, time.UTC),
	}

	doc := flightDocument(record)

	assert.Equal(t, "2024/05/10|08:15|EIDW|EGSS", doc["flight_key"])
	assert.Equal(t, "EIDW", doc["departure_airport"])
	assert.Equal(t, record.DateTime, doc["datetime"])
	assert.Len(t, doc, 17)
}

func TestReadAirportsCSV(t *testing.T) {
	data := "IATA,ICAO,Latitude,Longitude\nDUB,EIDW,53.421299,-6.27007\nSTN,EGSS,51.885,0.235\n"

	airports, err := ReadAirportsCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, airports, 2)

	assert.Equal(t, "EIDW", airports.ConvertIataToIcao("DUB"))
	lat, lon := airports.Coordinates("STN")
	assert.InDelta(t, 51.885, lat, 1e-9)
	assert.InDelta(t, 0.235, lon, 1e-9)
}

func TestReadAirportsCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"short row", "IATA,ICAO,Latitude,Longitude\nDUB,EIDW,53.4\n"},
		{"bad latitude", "IATA,ICAO,Latitude,Longitude\nDUB,EIDW,north,-6.27\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAirportsCSV(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, repository.ErrReferenceData))
		})
	}
}

func TestCSVAirportRepositoryMissingFile(t *testing.T) {
	repo := NewCSVAirportRepository(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := repo.LoadAirports(context.Background())
	assert.ErrorIs(t, err, repository.ErrReferenceData)
}

func TestWriteAirportsCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.csv")
	file, err := os.Create(path)
	require.NoError(t, err)

	err = WriteAirportsCSV(file, []entity.Airport{
		{IATA: "DUB", ICAO: "EIDW", Latitude: 53.421299, Longitude: -6.27007},
	})
	require.NoError(t, err)
	require.NoError(t, file.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "IATA,ICAO,Latitude,Longitude\nDUB,EIDW,53.421299,-6.27007\n", string(raw))

	airports, err := NewCSVAirportRepository(path).LoadAirports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EIDW", airports["DUB"].ICAO)
}

func TestCSVAirportRepositorySaveAirports(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "airports.csv")
	repo := NewCSVAirportRepository(path)

	require.NoError(t, os.WriteFile(path, []byte("IATA,ICAO,Latitude,Longitude\nOLD,XOLD,1,1\n"), 0o644))
	require.NoError(t, repo.SaveAirports(ctx, []entity.Airport{
		{IATA: "STN", ICAO: "EGSS", Latitude: 51.885, Longitude: 0.235},
	}))

	airports, err := repo.LoadAirports(ctx)
	require.NoError(t, err)
	assert.Len(t, airports, 1)
	assert.Contains(t, airports, "STN")
}

func TestReadAircraftCSV(t *testing.T) {
	data := "Registration,Aircraft Type,Delivered\n" +
		"EI-ABC,Boeing 737-800,2010\n" +
		"ei-hga,Boeing 737 MAX 8-200,2021\n" +
		"G-RUKA,Airbus A320,2019\n"

	aircraft, err := ReadAircraftCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, entity.VariantB737800, aircraft.Lookup("EIABC").Variant)
	assert.Equal(t, "Boeing 737-800", aircraft.Lookup("EI-ABC").Model)
	assert.Equal(t, entity.VariantB7378200, aircraft.Lookup("EIHGA").Variant)
	assert.Equal(t, entity.VariantUnknown, aircraft.Lookup("GRUKA").Variant)
}

func TestReadAircraftCSVMissingColumns(t *testing.T) {
	_, err := ReadAircraftCSV(strings.NewReader("Reg,Type\nEIABC,737-800\n"))
	assert.ErrorIs(t, err, repository.ErrReferenceData)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestGormAirportRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAirportRepository(newTestDB(t))
	require.NoError(t, repo.Migrate(ctx))

	err := repo.SaveAirports(ctx, []entity.Airport{
		{IATA: "DUB", ICAO: "EIDW", Latitude: 53.42, Longitude: -6.27},
		{IATA: "STN", ICAO: "EGSS", Latitude: 51.88, Longitude: 0.23},
	})
	require.NoError(t, err)

	// Refresh one row
	err = repo.SaveAirports(ctx, []entity.Airport{
		{IATA: "STN", ICAO: "EGSS", Latitude: 51.885, Longitude: 0.235},
	})
	require.NoError(t, err)

	airports, err := repo.LoadAirports(ctx)
	require.NoError(t, err)
	require.Len(t, airports, 2)
	assert.Equal(t, "EIDW", airports["DUB"].ICAO)
	assert.InDelta(t, 51.885, airports["STN"].Latitude, 1e-9)
}

func TestGormAirportRepositoryWithoutTable(t *testing.T) {
	repo := NewGormAirportRepository(newTestDB(t))
	_, err := repo.LoadAirports(context.Background())
	assert.ErrorIs(t, err, repository.ErrReferenceData)
}
