package scan

import (
	"testing"
	"time"

	"github.com/rmcnabb/farewatch/pkg/fare"
)

func testFilter() Filter {
	return Filter{
		Airline: "NZ",
		Caps: map[fare.Cabin]float64{
			fare.PremiumEconomy: 1300,
			fare.Business:       1500,
		},
		MinNights: 8,
		MaxNights: 12,
	}
}

func eligibleOffer() fare.Offer {
	return fare.Offer{
		Origin:           "AKL",
		Destination:      "SYD",
		DepartDate:       fare.Date(2026, time.March, 10),
		ReturnDate:       fare.Date(2026, time.March, 20),
		Cabin:            fare.PremiumEconomy,
		Price:            899,
		Currency:         "NZD",
		MarketingCarrier: "NZ",
	}
}

func TestFilter_Check(t *testing.T) {
	f := testFilter()

	tests := []struct {
		name   string
		mutate func(*fare.Offer)
		ok     bool
		reason string
	}{
		{name: "cheap premium economy passes", mutate: func(o *fare.Offer) {}, ok: true},
		{name: "business over its cap", mutate: func(o *fare.Offer) {
			o.Cabin = fare.Business
			o.Price = 1600
		}, ok: false, reason: RejectPrice},
		{name: "business at its cap passes", mutate: func(o *fare.Offer) {
			o.Cabin = fare.Business
			o.Price = 1500
		}, ok: true},
		{name: "premium economy at its cap passes", mutate: func(o *fare.Offer) {
			o.Price = 1300
		}, ok: true},
		{name: "one dollar over the cap", mutate: func(o *fare.Offer) {
			o.Price = 1301
		}, ok: false, reason: RejectPrice},
		{name: "wrong airline", mutate: func(o *fare.Offer) {
			o.MarketingCarrier = "QF"
		}, ok: false, reason: RejectAirline},
		{name: "unwatched cabin", mutate: func(o *fare.Offer) {
			o.Cabin = fare.CabinUnknown
		}, ok: false, reason: RejectCabin},
		{name: "stay too short", mutate: func(o *fare.Offer) {
			o.ReturnDate = o.DepartDate.AddDate(0, 0, 7)
		}, ok: false, reason: RejectNights},
		{name: "stay too long", mutate: func(o *fare.Offer) {
			o.ReturnDate = o.DepartDate.AddDate(0, 0, 13)
		}, ok: false, reason: RejectNights},
		{name: "shortest allowed stay passes", mutate: func(o *fare.Offer) {
			o.ReturnDate = o.DepartDate.AddDate(0, 0, 8)
		}, ok: true},
		{name: "longest allowed stay passes", mutate: func(o *fare.Offer) {
			o.ReturnDate = o.DepartDate.AddDate(0, 0, 12)
		}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := eligibleOffer()
			tt.mutate(&o)
			ok, reason := f.Check(o)
			if ok != tt.ok || reason != tt.reason {
				t.Errorf("Check = (%v, %q), want (%v, %q)", ok, reason, tt.ok, tt.reason)
			}
		})
	}
}

func TestFilter_Check_CarrierFallback(t *testing.T) {
	f := testFilter()

	// Operated by the wanted airline, marketed by a partner: the
	// operating carrier wins.
	o := eligibleOffer()
	o.MarketingCarrier = "SQ"
	o.OperatingCarrier = "NZ"
	if ok, _ := f.Check(o); !ok {
		t.Error("offer operated by the wanted airline should pass")
	}

	// No operating carrier recorded: the marketing carrier decides.
	o = eligibleOffer()
	o.OperatingCarrier = ""
	o.MarketingCarrier = "NZ"
	if ok, _ := f.Check(o); !ok {
		t.Error("marketing carrier fallback should pass")
	}
}

func TestFilter_Check_NoAirlineRestriction(t *testing.T) {
	f := testFilter()
	f.Airline = ""

	o := eligibleOffer()
	o.MarketingCarrier = "QF"
	if ok, _ := f.Check(o); !ok {
		t.Error("empty airline filter should accept any carrier")
	}
}
