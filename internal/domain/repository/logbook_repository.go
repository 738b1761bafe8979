package repository

import (
	"logbook-creator/internal/domain/entity"
)

// LogbookWriter renders flight records into the spreadsheet logbook
type LogbookWriter interface {
	Rebuild(records []entity.FlightRecord) error
	ReadAll() ([]entity.FlightRecord, error)
}
