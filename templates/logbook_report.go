package templates

import (
	"context"
	"strings"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/pkg/logger"
	"logbook-creator/pkg/utils"
)

// LogbookReportHandler handles the per-duty operational report emails
type LogbookReportHandler struct {
	parser   *utils.FlightLogParser
	aircraft entity.AircraftTable
	subject  string
	logger   logger.Logger
}

// NewLogbookReportHandler creates a handler for emails whose subject is subject
func NewLogbookReportHandler(parser *utils.FlightLogParser, aircraft entity.AircraftTable, subject string, logger logger.Logger) *LogbookReportHandler {
	return &LogbookReportHandler{
		parser:   parser,
		aircraft: aircraft,
		subject:  strings.TrimSpace(subject),
		logger:   logger,
	}
}

// Name identifies the handler
func (h *LogbookReportHandler) Name() string {
	return "logbook_report"
}

// CanHandle matches the trimmed subject case-insensitively
func (h *LogbookReportHandler) CanHandle(subject string) bool {
	return strings.EqualFold(strings.TrimSpace(subject), h.subject)
}

// Process extracts every complete leg of the report
func (h *LogbookReportHandler) Process(ctx context.Context, email *entity.Email) ([]entity.FlightRecord, error) {
	body := email.Text()

	h.logger.Debug("Processing logbook report", "emailID", email.EmailID, "bodyLength", len(body))
	flights := h.parser.ExtractFlights(body, h.aircraft)

	for _, flight := range flights {
		h.logger.Info("Flight extracted",
			"emailID", email.EmailID,
			"date", flight.Date,
			"departure", flight.DepartureAirport,
			"arrival", flight.ArrivalAirport,
			"departureTime", flight.DepartureTime,
			"arrivalTime", flight.ArrivalTime,
			"registration", flight.AircraftRegistration,
			"aircraftType", flight.AircraftType,
			"takeoffsNight", flight.TakeoffsNight,
			"landingsNight", flight.LandingsNight,
			"ifrTime", flight.IFRTime)
	}

	return flights, nil
}
