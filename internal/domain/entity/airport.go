package entity

// Airport is one row of the IATA reference table
type Airport struct {
	IATA      string
	ICAO      string
	Latitude  float64
	Longitude float64
}

// AirportTable maps IATA codes to airports. It is built once at startup and only read afterwards.
type AirportTable map[string]Airport

// Lookup never fails: unknown codes resolve to the code itself at (0, 0)
func (t AirportTable) Lookup(iata string) Airport {
	if airport, ok := t[iata]; ok {
		return airport
	}
	return Airport{IATA: iata, ICAO: iata}
}

// ConvertIataToIcao returns the ICAO code for iata, or iata unchanged when unknown
func (t AirportTable) ConvertIataToIcao(iata string) string {
	return t.Lookup(iata).ICAO
}

// Coordinates returns latitude and longitude for iata, (0, 0) when unknown
func (t AirportTable) Coordinates(iata string) (float64, float64) {
	airport := t.Lookup(iata)
	return airport.Latitude, airport.Longitude
}
