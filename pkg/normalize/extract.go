package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rmcnabb/farewatch/pkg/fare"
)

// item is one decoded offer record. Provider schemas vary, so every field
// is located by probing a sequence of known locations in order.
type item map[string]any

// lookup walks a dotted path through nested maps and arrays. A numeric
// path element indexes into an array; "*" scans an array and returns the
// first element for which the rest of the path resolves.
func lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	head, rest, _ := strings.Cut(path, ".")
	switch node := v.(type) {
	case map[string]any:
		return lookup(node[head], rest)
	case []any:
		if head == "*" {
			for _, elem := range node {
				if out, ok := lookup(elem, rest); ok {
					return out, true
				}
			}
			return nil, false
		}
		i, err := strconv.Atoi(head)
		if err != nil || i < 0 || i >= len(node) {
			return nil, false
		}
		return lookup(node[i], rest)
	default:
		return nil, false
	}
}

func lookupString(v any, path string) (string, bool) {
	out, ok := lookup(v, path)
	if !ok {
		return "", false
	}
	s, ok := out.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// stringAt probes each path in order and returns the first string found.
func (it item) stringAt(paths ...string) (string, bool) {
	for _, p := range paths {
		if s, ok := lookupString(it, p); ok {
			return s, true
		}
	}
	return "", false
}

// priceAt probes each path in order and returns the first parseable
// amount. Providers encode prices both as JSON numbers and as strings.
func (it item) priceAt(paths ...string) (float64, bool) {
	for _, p := range paths {
		out, ok := lookup(it, p)
		if !ok {
			continue
		}
		switch v := out.(type) {
		case float64:
			if v > 0 {
				return v, true
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f, true
			}
		}
	}
	return 0, false
}

// dateAt probes each path in order and returns the first parseable date.
// Timestamps are reduced to their date portion; any time-of-day or zone
// suffix is ignored.
func (it item) dateAt(paths ...string) (time.Time, bool) {
	for _, p := range paths {
		s, ok := lookupString(it, p)
		if !ok {
			continue
		}
		if len(s) > len(fare.DateLayout) {
			s = s[:len(fare.DateLayout)]
		}
		if t, err := time.Parse(fare.DateLayout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// cabinAt probes each path in order and returns the first value that
// parses to a known cabin. Unrecognized labels are skipped, not guessed.
func (it item) cabinAt(paths ...string) (fare.Cabin, bool) {
	for _, p := range paths {
		s, ok := lookupString(it, p)
		if !ok {
			continue
		}
		if c := fare.ParseCabin(s); c != fare.CabinUnknown {
			return c, true
		}
	}
	return fare.CabinUnknown, false
}

// Probe orders per logical field. Earlier paths are the provider's primary
// schema; later ones cover alternate layouts seen in the wild. Order is
// fixed so the same payload always normalizes the same way.
var (
	pricePaths = []string{
		"price.grandTotal",
		"price.total",
		"price",
	}
	currencyPaths = []string{
		"price.currency",
		"currency",
	}
	cabinPaths = []string{
		"travelerPricings.*.fareDetailsBySegment.*.cabin",
		"itineraries.*.segments.*.cabin",
		"itineraries.*.segments.*.cabinClass",
		"fare_category",
	}
	departPaths = []string{
		"departureDate",
		"itineraries.0.segments.0.departure.at",
		"local_departure",
	}
	returnPaths = []string{
		"returnDate",
		"itineraries.1.segments.0.departure.at",
		"local_arrival",
	}
	marketingPaths = []string{
		"validatingAirlineCodes.0",
		"itineraries.0.segments.0.carrierCode",
		"airlines.0",
	}
	operatingPaths = []string{
		"itineraries.0.segments.0.operating.carrierCode",
	}
	originPaths = []string{
		"itineraries.0.segments.0.departure.iataCode",
		"flyFrom",
	}
	destinationPaths = []string{
		"itineraries.0.segments.0.arrival.iataCode",
		"flyTo",
	}
	linkPaths = []string{
		"deep_link",
		"bookingLink",
	}
)

// missingFieldError names the first mandatory field an item lacks, for logs.
type missingFieldError struct{ field string }

func (e missingFieldError) Error() string {
	return fmt.Sprintf("offer has no usable %s field", e.field)
}
