// Package units provides shared constants and conversion for
// deformation units. Grid values are stored in millimetres; other
// units are derived via a scale factor.
package units

// Unit constants
const (
	MM = "mm"
	CM = "cm"
	M  = "m"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MM, CM, M}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mm, cm, m"
}

// ScaleFor returns the multiplier converting stored millimetre values
// to the target units. Unknown units fall back to millimetres.
func ScaleFor(targetUnits string) float64 {
	switch targetUnits {
	case CM:
		return 0.1
	case M:
		return 0.001
	default:
		return 1.0
	}
}

// Label returns the display label for a unit.
func Label(unit string) string {
	if IsValid(unit) {
		return unit
	}
	return MM
}
