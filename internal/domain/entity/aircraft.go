package entity

import "strings"

// Aircraft variants as written in the logbook
const (
	VariantB737800  = "B737-800"
	VariantB7378200 = "B737-8200"
	VariantUnknown  = "NA"
)

// Aircraft is one row of the fleet reference table
type Aircraft struct {
	Registration string // normalized, see NormalizeRegistration
	Model        string
	Variant      string
}

// AircraftTable maps normalized registrations to aircraft
type AircraftTable map[string]Aircraft

// NormalizeRegistration strips dashes and uppercases, so "EI-ABC" and "eiabc" match
func NormalizeRegistration(registration string) string {
	return strings.ToUpper(strings.ReplaceAll(registration, "-", ""))
}

// VariantOf derives the logbook variant from a fleet list aircraft type
func VariantOf(model string) string {
	switch {
	case strings.Contains(model, "737-800"):
		return VariantB737800
	case strings.Contains(model, "MAX 8"):
		return VariantB7378200
	default:
		return VariantUnknown
	}
}

// Lookup never fails: unknown registrations resolve to model and variant "NA"
func (t AircraftTable) Lookup(registration string) Aircraft {
	normalized := NormalizeRegistration(registration)
	if aircraft, ok := t[normalized]; ok {
		return aircraft
	}
	return Aircraft{Registration: normalized, Model: UnknownAircraft, Variant: VariantUnknown}
}
