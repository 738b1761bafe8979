package utils

import (
	"time"

	"logbook-creator/pkg/suncalc"
)

// LegSection is one leg of a report: its FlightNumber header and the text up to the next header
type LegSection struct {
	FlightNumber string
	Text         string
}

// LegFields holds the labeled fields of one leg. Optional fields are empty when not found.
type LegFields struct {
	DepartureIATA   string
	ArrivalIATA     string
	Airborne        string
	Landed          string
	Registration    string
	FlightTime      string
	NightFlightTime string
}

// SunCalculator resolves sunrise and sunset for a coordinate and date
type SunCalculator interface {
	SunTimes(latitude, longitude float64, date time.Time) (suncalc.SunTimes, error)
}
