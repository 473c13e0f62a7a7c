// Package fare defines the canonical, provider-independent fare types shared
// across the discovery pipeline.
//
// Every provider payload is normalized into an [Offer] before any filtering,
// deduplication or ranking happens, so downstream stages never see
// provider-specific shapes. Two offers describe the same itinerary when their
// [Offer.Key] values are equal, regardless of which search query surfaced them.
package fare

import (
	"fmt"
	"strings"
	"time"
)

// Cabin identifies the service class of a fare.
type Cabin string

// Supported cabins. CabinUnknown marks offers whose cabin could not be
// determined from the provider payload; such offers never pass eligibility.
const (
	PremiumEconomy Cabin = "premium_economy"
	Business       Cabin = "business"
	CabinUnknown   Cabin = "unknown"
)

// Label returns the human-readable cabin name used in reports.
func (c Cabin) Label() string {
	switch c {
	case PremiumEconomy:
		return "Premium Economy"
	case Business:
		return "Business"
	default:
		return "Unknown"
	}
}

// ParseCabin maps a provider cabin vocabulary onto a Cabin.
//
// Providers disagree wildly on spelling: "PREMIUM_ECONOMY", "premium-economy",
// "Premium Economy", and the booking-class codes "W" (premium economy) and
// "C"/"J" (business) all occur in the wild. Matching is case-insensitive and
// substring-tolerant, but a premium-economy label can never satisfy business
// and vice versa: "premium" is checked first precisely so that
// "premium economy" does not fall through to an "economy" or "business" match.
func ParseCabin(s string) Cabin {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)

	switch {
	case strings.Contains(norm, "premium"):
		return PremiumEconomy
	case strings.Contains(norm, "business"):
		return Business
	}

	// Single-letter booking class codes.
	switch norm {
	case "w":
		return PremiumEconomy
	case "c", "j":
		return Business
	}
	return CabinUnknown
}

// Offer is one priced round-trip itinerary in canonical form.
//
// An Offer is only ever constructed from fields that were actually present in
// the provider payload (price, currency, cabin and both dates are mandatory;
// the normalizer drops items missing any of them). Dates carry no time-of-day
// meaning; they are stored as UTC midnight.
type Offer struct {
	Origin      string // IATA location code, e.g. "AKL"
	Destination string // IATA location code, e.g. "SYD"

	DepartDate time.Time
	ReturnDate time.Time

	Cabin    Cabin
	Price    float64 // amount in Currency
	Currency string  // ISO code, e.g. "NZD"

	MarketingCarrier string // airline that sold the ticket
	OperatingCarrier string // airline that flies it (may be empty)

	BookingLink string // opaque deep link, possibly a placeholder
}

// Key identifies "the same itinerary" regardless of which query discovered it.
type Key struct {
	Origin      string
	Destination string
	Cabin       Cabin
	Depart      string // yyyy-mm-dd
	Return      string // yyyy-mm-dd
}

// Key returns the deduplication key for the offer.
func (o Offer) Key() Key {
	return Key{
		Origin:      o.Origin,
		Destination: o.Destination,
		Cabin:       o.Cabin,
		Depart:      o.DepartDate.Format(DateLayout),
		Return:      o.ReturnDate.Format(DateLayout),
	}
}

// Nights returns the stay length in nights between departure and return.
func (o Offer) Nights() int {
	return int(o.ReturnDate.Sub(o.DepartDate) / (24 * time.Hour))
}

// Carrier returns the operating carrier, falling back to the marketing
// carrier when the operating one is unknown.
func (o Offer) Carrier() string {
	if o.OperatingCarrier != "" {
		return o.OperatingCarrier
	}
	return o.MarketingCarrier
}

func (o Offer) String() string {
	return fmt.Sprintf("%s->%s %s %s/%s %.2f %s",
		o.Origin, o.Destination, o.Cabin,
		o.DepartDate.Format(DateLayout), o.ReturnDate.Format(DateLayout),
		o.Price, o.Currency)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date builds a date-only time value at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate strips any time-of-day component, keeping the calendar date.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}
