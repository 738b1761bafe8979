// internal/domain/entity/flight_record.go
package entity

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Layouts used by the logbook records
const (
	DateLayout      = "2006/01/02"
	ClockLayout     = "15:04"
	SortKeyLayout   = DateLayout + " " + ClockLayout
	NotAvailable    = "N/A"
	ZeroDuration    = "00:00"
	UnknownAircraft = "NA"
)

// ErrMalformedTimestamp is returned when a record's date or clock fields do not match the expected layout
var ErrMalformedTimestamp = errors.New("malformed flight timestamp")

// FlightRecord is one leg of a duty period as it goes into the logbook
type FlightRecord struct {
	Date                 string    `bson:"date" json:"date"`
	DepartureAirport     string    `bson:"departure_airport" json:"departure_airport"`
	ArrivalAirport       string    `bson:"arrival_airport" json:"arrival_airport"`
	DepartureTime        string    `bson:"departure_time" json:"departure_time"`
	ArrivalTime          string    `bson:"arrival_time" json:"arrival_time"`
	AircraftRegistration string    `bson:"aircraft_registration" json:"aircraft_registration"`
	AircraftType         string    `bson:"aircraft_type" json:"aircraft_type"`
	FlightTime           string    `bson:"flight_time" json:"flight_time"`
	Captain              string    `bson:"captain" json:"captain"`
	TakeoffsDay          int       `bson:"takeoffs_day" json:"takeoffs_day"`
	TakeoffsNight        int       `bson:"takeoffs_night" json:"takeoffs_night"`
	LandingsDay          int       `bson:"landings_day" json:"landings_day"`
	LandingsNight        int       `bson:"landings_night" json:"landings_night"`
	NightFlightTime      string    `bson:"night_flight_time" json:"night_flight_time"`
	IFRTime              string    `bson:"ifr_time" json:"ifr_time"`
	DateTime             time.Time `bson:"datetime" json:"datetime"`
}

// SortKey combines date and departure time into one comparable instant
func (r FlightRecord) SortKey() (time.Time, error) {
	t, err := time.Parse(SortKeyLayout, r.Date+" "+r.DepartureTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q departure %q: %v", ErrMalformedTimestamp, r.Date, r.DepartureTime, err)
	}
	return t, nil
}

// FlightKey identifies a leg across repeated imports of the same report
func (r FlightRecord) FlightKey() string {
	return fmt.Sprintf("%s|%s|%s|%s", r.Date, r.DepartureTime, r.DepartureAirport, r.ArrivalAirport)
}

// ToMap returns the flat key/value form handed to storage and export
func (r FlightRecord) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"date":                  r.Date,
		"departure_airport":     r.DepartureAirport,
		"arrival_airport":       r.ArrivalAirport,
		"departure_time":        r.DepartureTime,
		"arrival_time":          r.ArrivalTime,
		"aircraft_registration": r.AircraftRegistration,
		"aircraft_type":         r.AircraftType,
		"flight_time":           r.FlightTime,
		"captain":               r.Captain,
		"takeoffs_day":          r.TakeoffsDay,
		"takeoffs_night":        r.TakeoffsNight,
		"landings_day":          r.LandingsDay,
		"landings_night":        r.LandingsNight,
		"night_flight_time":     r.NightFlightTime,
		"ifr_time":              r.IFRTime,
		"datetime":              r.DateTime,
	}
}

// SortFlightRecords orders records by sort key. Any record with a malformed
// date or departure time aborts the sort and leaves the slice untouched.
func SortFlightRecords(records []FlightRecord) error {
	keys := make([]time.Time, len(records))
	for i, record := range records {
		key, err := record.SortKey()
		if err != nil {
			return err
		}
		keys[i] = key
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].Before(keys[idx[b]])
	})

	sorted := make([]FlightRecord, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	copy(records, sorted)
	return nil
}
