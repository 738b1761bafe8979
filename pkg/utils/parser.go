package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/pkg/logger"
	"logbook-creator/pkg/suncalc"
)

var (
	reportDateRe      = regexp.MustCompile(`(\d{4}/\d{2}/\d{2})`)
	captainRe         = regexp.MustCompile(`Flight Deck Crew\s+\w+\s+:\s+CP\s+:\s+([A-Z\s]+)`)
	legHeaderRe       = regexp.MustCompile(`FlightNumber\s+:\s+(\w+)`)
	cityPairRe        = regexp.MustCompile(`City Pair\s+:\s+(\w+) - (\w+)`)
	airborneRe        = regexp.MustCompile(`Airborne\s+:\s+(\d{2}:\d{2})`)
	landedRe          = regexp.MustCompile(`Landed\s+:\s+(\d{2}:\d{2})`)
	registrationRe    = regexp.MustCompile(`Registration\s+:\s+(\w+)`)
	totalFlightRe     = regexp.MustCompile(`Total flight\s+:\s+(\d{2}:\d{2})`)
	nightFlightTimeRe = regexp.MustCompile(`Night Flight Time\s+:\s+(\d{2}:\d{2})`)
)

// FlightLogParser turns operational report emails into flight records
type FlightLogParser struct {
	airports entity.AirportTable
	sun      SunCalculator
	logger   logger.Logger
}

// NewFlightLogParser creates a new parser with its reference data
func NewFlightLogParser(airports entity.AirportTable, sun SunCalculator, logger logger.Logger) *FlightLogParser {
	return &FlightLogParser{
		airports: airports,
		sun:      sun,
		logger:   logger,
	}
}

// ExtractReportDate finds the first YYYY/MM/DD date anywhere in the body
func (p *FlightLogParser) ExtractReportDate(body string) (string, bool) {
	return extractField(reportDateRe, body)
}

// ExtractCaptainName extracts the captain of the duty period, "N/A" when absent
func (p *FlightLogParser) ExtractCaptainName(body string) string {
	match := captainRe.FindStringSubmatch(body)
	if len(match) < 2 {
		p.logger.Info("Captain name not found")
		return entity.NotAvailable
	}

	name := strings.TrimSpace(match[1])
	name = strings.TrimSpace(strings.Split(name, "\n")[0])
	if name == "" {
		p.logger.Info("Captain name not found")
		return entity.NotAvailable
	}

	p.logger.Debug("Captain name found", "captain", name)
	return name
}

// SplitLegSections splits the body at each FlightNumber header. Text before the first header is dropped.
func (p *FlightLogParser) SplitLegSections(body string) []LegSection {
	matches := legHeaderRe.FindAllStringSubmatchIndex(body, -1)

	sections := make([]LegSection, 0, len(matches))
	for i, match := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, LegSection{
			FlightNumber: body[match[2]:match[3]],
			Text:         body[match[0]:end],
		})
	}

	return sections
}

// ExtractCityPair extracts departure and arrival IATA codes of a leg
func (p *FlightLogParser) ExtractCityPair(section string) (string, string, bool) {
	match := cityPairRe.FindStringSubmatch(section)
	if len(match) < 3 {
		return "", "", false
	}
	return match[1], match[2], true
}

// ExtractAirborne extracts the takeoff clock time of a leg
func (p *FlightLogParser) ExtractAirborne(section string) (string, bool) {
	return extractField(airborneRe, section)
}

// ExtractLanded extracts the landing clock time of a leg
func (p *FlightLogParser) ExtractLanded(section string) (string, bool) {
	return extractField(landedRe, section)
}

// ExtractRegistration extracts the aircraft registration of a leg
func (p *FlightLogParser) ExtractRegistration(section string) (string, bool) {
	return extractField(registrationRe, section)
}

// ExtractFlightTime extracts the total flight duration of a leg
func (p *FlightLogParser) ExtractFlightTime(section string) (string, bool) {
	return extractField(totalFlightRe, section)
}

// ExtractNightFlightTime extracts the night flight duration of a leg
func (p *FlightLogParser) ExtractNightFlightTime(section string) (string, bool) {
	return extractField(nightFlightTimeRe, section)
}

// ExtractLegFields runs every leg accessor independently, so a drifting label only loses its own field
func (p *FlightLogParser) ExtractLegFields(section string) LegFields {
	var fields LegFields
	fields.DepartureIATA, fields.ArrivalIATA, _ = p.ExtractCityPair(section)
	fields.Airborne, _ = p.ExtractAirborne(section)
	fields.Landed, _ = p.ExtractLanded(section)
	fields.Registration, _ = p.ExtractRegistration(section)
	fields.FlightTime, _ = p.ExtractFlightTime(section)
	fields.NightFlightTime, _ = p.ExtractNightFlightTime(section)
	return fields
}

// ExtractFlights returns one record per complete leg in the email. It never
// fails: a missing date yields no records and incomplete legs are skipped.
func (p *FlightLogParser) ExtractFlights(body string, aircraft entity.AircraftTable) []entity.FlightRecord {
	body = normalizeText(body)
	flights := []entity.FlightRecord{}

	date, ok := p.ExtractReportDate(body)
	if !ok {
		p.logger.Info("Report date not found in email body")
		return flights
	}

	reportDate, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		p.logger.Error("Report date is not a calendar date", "date", date, "error", err)
		return flights
	}

	captain := p.ExtractCaptainName(body)
	sections := p.SplitLegSections(body)
	p.logger.Debug("Leg sections found", "date", date, "count", len(sections))

	for _, section := range sections {
		fields := p.ExtractLegFields(section.Text)

		if fields.DepartureIATA == "" || fields.Airborne == "" || fields.Landed == "" {
			p.logger.Info("Skipping leg with missing data",
				"flightNumber", section.FlightNumber,
				"hasCityPair", fields.DepartureIATA != "",
				"hasAirborne", fields.Airborne != "",
				"hasLanded", fields.Landed != "")
			continue
		}

		record, err := p.buildRecord(date, reportDate, captain, fields, aircraft)
		if err != nil {
			p.logger.Warn("Skipping leg", "flightNumber", section.FlightNumber, "error", err)
			continue
		}

		p.logger.Debug("Flight created",
			"flightNumber", section.FlightNumber,
			"departure", record.DepartureAirport,
			"arrival", record.ArrivalAirport,
			"airborne", record.DepartureTime)
		flights = append(flights, record)
	}

	p.logger.Info("Extracted flights", "date", date, "legs", len(sections), "count", len(flights))
	return flights
}

func (p *FlightLogParser) buildRecord(date string, reportDate time.Time, captain string, fields LegFields, aircraft entity.AircraftTable) (entity.FlightRecord, error) {
	departure, err := time.Parse(entity.ClockLayout, fields.Airborne)
	if err != nil {
		return entity.FlightRecord{}, errors.Join(entity.ErrMalformedTimestamp, err)
	}
	arrival, err := time.Parse(entity.ClockLayout, fields.Landed)
	if err != nil {
		return entity.FlightRecord{}, errors.Join(entity.ErrMalformedTimestamp, err)
	}

	// Both events use the departure airport's sun times
	lat, lon := p.airports.Coordinates(fields.DepartureIATA)
	sun, err := p.sun.SunTimes(lat, lon, reportDate)
	if err != nil {
		return entity.FlightRecord{}, err
	}

	takeoffsDay, takeoffsNight := dayNightPair(suncalc.Classify(departure, sun.Sunrise, sun.Sunset))
	landingsDay, landingsNight := dayNightPair(suncalc.Classify(arrival, sun.Sunrise, sun.Sunset))

	registration := fields.Registration
	if registration == "" {
		registration = entity.NotAvailable
	}

	record := entity.FlightRecord{
		Date:                 date,
		DepartureAirport:     p.airports.ConvertIataToIcao(fields.DepartureIATA),
		ArrivalAirport:       p.airports.ConvertIataToIcao(fields.ArrivalIATA),
		DepartureTime:        fields.Airborne,
		ArrivalTime:          fields.Landed,
		AircraftRegistration: registration,
		AircraftType:         aircraft.Lookup(registration).Model,
		FlightTime:           orDefault(fields.FlightTime, entity.ZeroDuration),
		Captain:              captain,
		TakeoffsDay:          takeoffsDay,
		TakeoffsNight:        takeoffsNight,
		LandingsDay:          landingsDay,
		LandingsNight:        landingsNight,
		NightFlightTime:      orDefault(fields.NightFlightTime, entity.ZeroDuration),
		IFRTime:              FormatDuration(arrival.Sub(departure)),
	}

	record.DateTime, err = record.SortKey()
	if err != nil {
		return entity.FlightRecord{}, err
	}

	return record, nil
}

func dayNightPair(period suncalc.Period) (int, int) {
	if period == suncalc.Night {
		return 0, 1
	}
	return 1, 0
}

func extractField(re *regexp.Regexp, text string) (string, bool) {
	match := re.FindStringSubmatch(text)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
