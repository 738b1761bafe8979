package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKey(t *testing.T) {
	record := FlightRecord{Date: "2024/05/10", DepartureTime: "08:15"}

	key, err := record.SortKey()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 10, 8, 15, 0, 0, time.UTC), key)
}

func TestSortKeyMalformed(t *testing.T) {
	tests := []FlightRecord{
		{Date: "2024-05-10", DepartureTime: "08:15"},
		{Date: "2024/05/10", DepartureTime: "8:15am"},
		{Date: "", DepartureTime: ""},
	}

	for _, record := range tests {
		_, err := record.SortKey()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedTimestamp))
	}
}

func TestSortFlightRecords(t *testing.T) {
	records := []FlightRecord{
		{Date: "2024/05/11", DepartureTime: "06:00", DepartureAirport: "C"},
		{Date: "2024/05/10", DepartureTime: "18:30", DepartureAirport: "B"},
		{Date: "2024/05/10", DepartureTime: "08:15", DepartureAirport: "A"},
	}

	require.NoError(t, SortFlightRecords(records))
	assert.Equal(t, "A", records[0].DepartureAirport)
	assert.Equal(t, "B", records[1].DepartureAirport)
	assert.Equal(t, "C", records[2].DepartureAirport)
}

func TestSortFlightRecordsRejectsMalformed(t *testing.T) {
	records := []FlightRecord{
		{Date: "2024/05/11", DepartureTime: "06:00", DepartureAirport: "C"},
		{Date: "11/05/2024", DepartureTime: "06:00", DepartureAirport: "X"},
	}

	err := SortFlightRecords(records)
	require.ErrorIs(t, err, ErrMalformedTimestamp)
	assert.Equal(t, "C", records[0].DepartureAirport, "slice must be untouched on error")
}

func TestToMapCarriesEveryField(t *testing.T) {
	record := FlightRecord{
		Date:                 "2024/05/10",
		DepartureAirport:     "EIDW",
		ArrivalAirport:       "EGSS",
		DepartureTime:        "08:15",
		ArrivalTime:          "09:05",
		AircraftRegistration: "EIABC",
		AircraftType:         "Boeing 737-800",
		FlightTime:           "00:50",
		Captain:              "JOHN SMITH",
		TakeoffsDay:          1,
		LandingsDay:          1,
		NightFlightTime:      "00:00",
		IFRTime:              "00:50",
	}

	m := record.ToMap()
	assert.Len(t, m, 16)
	assert.Equal(t, "EIDW", m["departure_airport"])
	assert.Equal(t, 1, m["takeoffs_day"])
	assert.Equal(t, 0, m["takeoffs_night"])
	assert.Equal(t, "2024/05/10|08:15|EIDW|EGSS", record.FlightKey())
}
