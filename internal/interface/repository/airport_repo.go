package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CSVAirportRepository reads the IATA,ICAO,Latitude,Longitude reference file
type CSVAirportRepository struct {
	path string
}

// NewCSVAirportRepository creates a new CSV airport repository
func NewCSVAirportRepository(path string) *CSVAirportRepository {
	return &CSVAirportRepository{path: path}
}

// LoadAirports reads the whole file. The first row is a header.
func (r *CSVAirportRepository) LoadAirports(ctx context.Context) (entity.AirportTable, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrReferenceData, err)
	}
	defer file.Close()

	return ReadAirportsCSV(file)
}

// SaveAirports replaces the file with airports. The new content is written
// next to the target and renamed over it.
func (r *CSVAirportRepository) SaveAirports(ctx context.Context, airports []entity.Airport) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".airports-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create airports file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteAirportsCSV(tmp, airports); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write airports file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write airports file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

// ReadAirportsCSV parses airport rows from r
func ReadAirportsCSV(r io.Reader) (entity.AirportTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: airports header: %v", repository.ErrReferenceData, err)
	}

	airports := make(entity.AirportTable)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: airports line %d: %v", repository.ErrReferenceData, line, err)
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("%w: airports line %d: expected 4 columns, got %d", repository.ErrReferenceData, line, len(row))
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: airports line %d: latitude: %v", repository.ErrReferenceData, line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: airports line %d: longitude: %v", repository.ErrReferenceData, line, err)
		}

		airports[row[0]] = entity.Airport{
			IATA:      row[0],
			ICAO:      row[1],
			Latitude:  lat,
			Longitude: lon,
		}
	}

	return airports, nil
}

// WriteAirportsCSV writes the header and one row per airport in the given order
func WriteAirportsCSV(w io.Writer, airports []entity.Airport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"IATA", "ICAO", "Latitude", "Longitude"}); err != nil {
		return err
	}

	for _, airport := range airports {
		row := []string{
			airport.IATA,
			airport.ICAO,
			strconv.FormatFloat(airport.Latitude, 'f', -1, 64),
			strconv.FormatFloat(airport.Longitude, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// GormAirportRepository implements AirportRepository on the m_airports table
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) *GormAirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// AirportModel GORM model for database mapping
type AirportModel struct {
	ID        uint    `gorm:"primaryKey"`
	IATA      string  `gorm:"column:iata;size:3;uniqueIndex"`
	ICAO      string  `gorm:"column:icao;size:4"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (AirportModel) TableName() string {
	return "m_airports"
}

// Migrate creates or updates the m_airports table
func (r *GormAirportRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&AirportModel{})
}

// LoadAirports reads every row of m_airports
func (r *GormAirportRepository) LoadAirports(ctx context.Context) (entity.AirportTable, error) {
	var rows []AirportModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrReferenceData, err)
	}

	// Convert GORM models to domain entities
	airports := make(entity.AirportTable, len(rows))
	for _, row := range rows {
		airports[row.IATA] = entity.Airport{
			IATA:      row.IATA,
			ICAO:      row.ICAO,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		}
	}

	return airports, nil
}

// SaveAirports inserts airports or refreshes the existing row for the same IATA code
func (r *GormAirportRepository) SaveAirports(ctx context.Context, airports []entity.Airport) error {
	if len(airports) == 0 {
		return nil
	}

	rows := make([]AirportModel, 0, len(airports))
	for _, airport := range airports {
		rows = append(rows, AirportModel{
			IATA:      airport.IATA,
			ICAO:      airport.ICAO,
			Latitude:  airport.Latitude,
			Longitude: airport.Longitude,
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "iata"}},
			DoUpdates: clause.AssignmentColumns([]string{"icao", "latitude", "longitude", "updated_at"}),
		}).
		CreateInBatches(rows, 500).Error
}
