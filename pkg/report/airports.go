package report

// airportNames maps IATA codes to display names for the routes the scan
// typically covers. Unknown codes fall back to the bare code.
var airportNames = map[string]string{
	"AKL": "Auckland",
	"WLG": "Wellington",
	"CHC": "Christchurch",
	"ZQN": "Queenstown",
	"SYD": "Sydney",
	"MEL": "Melbourne",
	"BNE": "Brisbane",
	"PER": "Perth",
	"ADL": "Adelaide",
	"OOL": "Gold Coast",
	"NAN": "Nadi",
	"RAR": "Rarotonga",
	"PPT": "Papeete",
	"HNL": "Honolulu",
	"LAX": "Los Angeles",
	"SFO": "San Francisco",
	"SIN": "Singapore",
	"HKG": "Hong Kong",
	"NRT": "Tokyo Narita",
	"HND": "Tokyo Haneda",
	"LHR": "London Heathrow",
}

// AirportName returns a human-readable name for an IATA code.
func AirportName(code string) string {
	if name, ok := airportNames[code]; ok {
		return name
	}
	return code
}

// RouteLabel formats a route for display, e.g. "Auckland → Sydney".
func RouteLabel(origin, dest string) string {
	return AirportName(origin) + " → " + AirportName(dest)
}
