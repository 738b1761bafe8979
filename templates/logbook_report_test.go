package templates

import (
	"context"
	"testing"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/pkg/logger"
	"logbook-creator/pkg/suncalc"
	"logbook-creator/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSun struct{}

func (fixedSun) SunTimes(lat, lon float64, date time.Time) (suncalc.SunTimes, error) {
	return suncalc.SunTimes{
		Sunrise: date.Add(5 * time.Hour),
		Sunset:  date.Add(20 * time.Hour),
	}, nil
}

const report = `Report 2024/05/10
Flight Deck Crew 1 : CP : JOHN SMITH
FlightNumber : FR123
City Pair : DUB - STN
Airborne : 21:15
Landed : 22:05
Registration : EIABC
`

func newHandler() *LogbookReportHandler {
	airports := entity.AirportTable{
		"DUB": {IATA: "DUB", ICAO: "EIDW", Latitude: 53.42, Longitude: -6.27},
	}
	aircraft := entity.AircraftTable{
		"EIABC": {Registration: "EIABC", Model: "Boeing 737-800", Variant: entity.VariantB737800},
	}
	parser := utils.NewFlightLogParser(airports, fixedSun{}, logger.NewNopLogger())
	return NewLogbookReportHandler(parser, aircraft, "logbook", logger.NewNopLogger())
}

func TestCanHandle(t *testing.T) {
	h := newHandler()

	assert.True(t, h.CanHandle("logbook"))
	assert.True(t, h.CanHandle("  LogBook \n"))
	assert.False(t, h.CanHandle("logbook report"))
	assert.False(t, h.CanHandle("Fwd: logbook"))
	assert.False(t, h.CanHandle(""))
}

func TestProcess(t *testing.T) {
	flights, err := newHandler().Process(context.Background(), &entity.Email{EmailID: "m1", Body: report})
	require.NoError(t, err)
	require.Len(t, flights, 1)

	assert.Equal(t, "EIDW", flights[0].DepartureAirport)
	assert.Equal(t, "STN", flights[0].ArrivalAirport)
	assert.Equal(t, "Boeing 737-800", flights[0].AircraftType)
	assert.Equal(t, 1, flights[0].TakeoffsNight)
	assert.Equal(t, 1, flights[0].LandingsNight)
	assert.Equal(t, "JOHN SMITH", flights[0].Captain)
}

func TestProcessFallsBackToHTMLText(t *testing.T) {
	flights, err := newHandler().Process(context.Background(), &entity.Email{EmailID: "m1", HTMLBody: report})
	require.NoError(t, err)
	assert.Len(t, flights, 1)
}

func TestProcessHTMLWithNonBreakingSpaces(t *testing.T) {
	html := "<html><body>" +
		"<p>Report 2024/05/10</p>" +
		"<p>FlightNumber&nbsp;:&nbsp;FR123</p>" +
		"<p>City&nbsp;Pair&nbsp;:&nbsp;DUB&nbsp;-&nbsp;STN</p>" +
		"<p>Airborne&nbsp;:&nbsp;21:15</p>" +
		"<p>Landed&nbsp;:&nbsp;22:05</p>" +
		"<p>Registration&nbsp;:&nbsp;EIABC</p>" +
		"</body></html>"

	email := &entity.Email{EmailID: "m1", HTMLBody: utils.CleanHTMLText(html)}
	flights, err := newHandler().Process(context.Background(), email)
	require.NoError(t, err)
	require.Len(t, flights, 1)

	assert.Equal(t, "EIDW", flights[0].DepartureAirport)
	assert.Equal(t, "STN", flights[0].ArrivalAirport)
	assert.Equal(t, "Boeing 737-800", flights[0].AircraftType)
}

func TestProcessWithoutReportDate(t *testing.T) {
	flights, err := newHandler().Process(context.Background(), &entity.Email{EmailID: "m1", Body: "hello"})
	require.NoError(t, err)
	assert.Empty(t, flights)
}
