package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAirportTableFallback(t *testing.T) {
	table := AirportTable{
		"DUB": {IATA: "DUB", ICAO: "EIDW", Latitude: 53.42, Longitude: -6.27},
	}

	assert.Equal(t, "EIDW", table.ConvertIataToIcao("DUB"))
	lat, lon := table.Coordinates("DUB")
	assert.Equal(t, 53.42, lat)
	assert.Equal(t, -6.27, lon)

	assert.Equal(t, "XYZ", table.ConvertIataToIcao("XYZ"))
	lat, lon = table.Coordinates("XYZ")
	assert.Zero(t, lat)
	assert.Zero(t, lon)

	var empty AirportTable
	assert.Equal(t, "ABC", empty.ConvertIataToIcao("ABC"))
}

func TestNormalizeRegistration(t *testing.T) {
	assert.Equal(t, "EIABC", NormalizeRegistration("EI-ABC"))
	assert.Equal(t, "EIABC", NormalizeRegistration("ei-abc"))
	assert.Equal(t, "N/A", NormalizeRegistration("N/A"))
}

func TestVariantOf(t *testing.T) {
	assert.Equal(t, VariantB737800, VariantOf("Boeing 737-800"))
	assert.Equal(t, VariantB7378200, VariantOf("Boeing 737 MAX 8-200"))
	assert.Equal(t, VariantUnknown, VariantOf("Airbus A320"))
}

func TestAircraftTableLookup(t *testing.T) {
	table := AircraftTable{
		"EIABC": {Registration: "EIABC", Model: "Boeing 737-800", Variant: VariantB737800},
	}

	assert.Equal(t, "Boeing 737-800", table.Lookup("EI-ABC").Model)
	assert.Equal(t, UnknownAircraft, table.Lookup("EI-ZZZ").Model)
	assert.Equal(t, VariantUnknown, table.Lookup("N/A").Variant)
}
