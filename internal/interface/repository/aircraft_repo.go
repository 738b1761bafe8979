package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"
)

// CSVAircraftRepository reads the fleet list with Registration and Aircraft Type columns
type CSVAircraftRepository struct {
	path string
}

// NewCSVAircraftRepository creates a new CSV aircraft repository
func NewCSVAircraftRepository(path string) repository.AircraftRepository {
	return &CSVAircraftRepository{path: path}
}

// LoadAircraft reads the whole fleet list
func (r *CSVAircraftRepository) LoadAircraft(ctx context.Context) (entity.AircraftTable, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrReferenceData, err)
	}
	defer file.Close()

	return ReadAircraftCSV(file)
}

// ReadAircraftCSV parses the fleet list. Columns are located by header name.
func ReadAircraftCSV(r io.Reader) (entity.AircraftTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: aircraft header: %v", repository.ErrReferenceData, err)
	}

	regCol, typeCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "Registration":
			regCol = i
		case "Aircraft Type":
			typeCol = i
		}
	}
	if regCol < 0 || typeCol < 0 {
		return nil, fmt.Errorf("%w: aircraft header must contain Registration and Aircraft Type", repository.ErrReferenceData)
	}

	aircraft := make(entity.AircraftTable)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: aircraft line %d: %v", repository.ErrReferenceData, line, err)
		}
		if len(row) <= regCol || len(row) <= typeCol {
			return nil, fmt.Errorf("%w: aircraft line %d: missing columns", repository.ErrReferenceData, line)
		}

		registration := entity.NormalizeRegistration(row[regCol])
		model := row[typeCol]
		aircraft[registration] = entity.Aircraft{
			Registration: registration,
			Model:        model,
			Variant:      entity.VariantOf(model),
		}
	}

	return aircraft, nil
}
