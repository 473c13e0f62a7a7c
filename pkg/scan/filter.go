package scan

import (
	"github.com/rmcnabb/farewatch/pkg/fare"
)

// Rejection reasons reported by Filter.Check, keyed into Stats.Rejects.
const (
	RejectAirline = "airline"
	RejectCabin   = "cabin"
	RejectPrice   = "price"
	RejectNights  = "nights"
)

// Filter decides which normalized offers are worth reporting.
type Filter struct {
	// Airline restricts offers to one carrier. The offer's operating
	// carrier is checked, falling back to the marketing carrier when the
	// operating one is absent. Empty disables the check.
	Airline string

	// Caps maps accepted cabins to their maximum price, inclusive.
	Caps map[fare.Cabin]float64

	MinNights int
	MaxNights int
}

// FilterFor derives the eligibility filter a request implies.
func FilterFor(r Request) Filter {
	return Filter{
		Airline:   r.Airline,
		Caps:      r.Caps,
		MinNights: r.MinNights,
		MaxNights: r.MaxNights,
	}
}

// Check reports whether the offer is eligible. When it is not, reason
// names the first rule it failed.
func (f Filter) Check(o fare.Offer) (ok bool, reason string) {
	if f.Airline != "" && o.Carrier() != f.Airline {
		return false, RejectAirline
	}
	cap, watched := f.Caps[o.Cabin]
	if !watched {
		return false, RejectCabin
	}
	if o.Price > cap {
		return false, RejectPrice
	}
	if nights := o.Nights(); nights < f.MinNights || nights > f.MaxNights {
		return false, RejectNights
	}
	return true, ""
}
