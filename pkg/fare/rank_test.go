package fare

import (
	"testing"
	"time"
)

func offer(price float64, dep, ret time.Time) Offer {
	return Offer{
		Origin: "AKL", Destination: "SYD", Cabin: PremiumEconomy,
		DepartDate: dep, ReturnDate: ret,
		Price: price, Currency: "NZD", MarketingCarrier: "NZ",
	}
}

func TestDedupe_KeepsCheapest(t *testing.T) {
	dep := Date(2026, time.April, 2)
	ret := Date(2026, time.April, 12)

	// The same itinerary rediscovered by two overlapping queries.
	got := Dedupe([]Offer{offer(1250, dep, ret), offer(1200, dep, ret)})

	if len(got) != 1 {
		t.Fatalf("expected 1 offer after dedup, got %d", len(got))
	}
	if got[0].Price != 1200 {
		t.Errorf("expected cheapest price 1200, got %v", got[0].Price)
	}
}

func TestDedupe_TieKeepsFirstSeen(t *testing.T) {
	dep := Date(2026, time.April, 2)
	ret := Date(2026, time.April, 12)

	first := offer(999, dep, ret)
	first.BookingLink = "first"
	second := offer(999, dep, ret)
	second.BookingLink = "second"

	got := Dedupe([]Offer{first, second})
	if len(got) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(got))
	}
	if got[0].BookingLink != "first" {
		t.Errorf("price tie should keep first-seen offer, kept %q", got[0].BookingLink)
	}
}

func TestDedupe_DistinctItinerariesSurvive(t *testing.T) {
	dep := Date(2026, time.April, 2)
	a := offer(900, dep, Date(2026, time.April, 10))
	b := offer(900, dep, Date(2026, time.April, 11))
	c := offer(900, dep, Date(2026, time.April, 10))
	c.Cabin = Business

	if got := Dedupe([]Offer{a, b, c}); len(got) != 3 {
		t.Errorf("expected 3 distinct itineraries, got %d", len(got))
	}
}

func TestRank_CabinBreaksFullTie(t *testing.T) {
	dep := Date(2026, time.May, 1)
	ret := Date(2026, time.May, 9)
	pe := offer(1100, dep, ret)
	biz := offer(1100, dep, ret)
	biz.Cabin = Business

	forward := []Offer{pe, biz}
	backward := []Offer{biz, pe}
	Rank(forward)
	Rank(backward)

	if forward[0].Cabin != backward[0].Cabin {
		t.Fatalf("ordering depends on input order: %v vs %v", forward[0].Cabin, backward[0].Cabin)
	}
	if forward[0].Cabin != Business {
		t.Errorf("offers tied on everything but cabin should order by cabin, got %v first", forward[0].Cabin)
	}
}

func TestRank_OrdersByPriceThenDates(t *testing.T) {
	offers := []Offer{
		offer(1300, Date(2026, time.May, 1), Date(2026, time.May, 9)),
		offer(900, Date(2026, time.June, 1), Date(2026, time.June, 9)),
		offer(1300, Date(2026, time.April, 1), Date(2026, time.April, 9)),
	}
	Rank(offers)

	if offers[0].Price != 900 {
		t.Errorf("cheapest offer should rank first, got %v", offers[0].Price)
	}
	if !offers[1].DepartDate.Equal(Date(2026, time.April, 1)) {
		t.Errorf("price tie should order by departure date, got %v", offers[1].DepartDate)
	}
}
