package fare

import "sort"

// Dedupe collapses offers that share the same itinerary key to the single
// cheapest instance. Ties on price keep the first-seen offer.
//
// The sparse query enumeration deliberately overlaps (flex windows, multiple
// night offsets), so the same itinerary is commonly rediscovered several
// times; callers want one row per itinerary, not one per query.
func Dedupe(offers []Offer) []Offer {
	best := make(map[Key]int, len(offers))
	kept := make([]Offer, 0, len(offers))

	for _, o := range offers {
		k := o.Key()
		if i, ok := best[k]; ok {
			if o.Price < kept[i].Price {
				kept[i] = o
			}
			continue
		}
		best[k] = len(kept)
		kept = append(kept, o)
	}
	return kept
}

// Rank sorts offers ascending by price. Equal prices are ordered by
// departure date, return date, route, then cabin so the result is
// deterministic regardless of accumulation order.
func Rank(offers []Offer) {
	sort.Slice(offers, func(i, j int) bool {
		return rankLess(offers[i], offers[j])
	})
}

// rankLess is the ranking order. It is total over the deduplication key,
// so any two offers with distinct keys have a defined order.
func rankLess(a, b Offer) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if !a.DepartDate.Equal(b.DepartDate) {
		return a.DepartDate.Before(b.DepartDate)
	}
	if !a.ReturnDate.Equal(b.ReturnDate) {
		return a.ReturnDate.Before(b.ReturnDate)
	}
	if a.Origin != b.Origin {
		return a.Origin < b.Origin
	}
	if a.Destination != b.Destination {
		return a.Destination < b.Destination
	}
	return a.Cabin < b.Cabin
}
