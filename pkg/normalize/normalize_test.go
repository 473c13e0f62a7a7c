package normalize

import (
	"testing"
	"time"

	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/provider"
)

func testQuery() provider.Query {
	return provider.Query{
		Origin:      "AKL",
		Destination: "SYD",
		DepartDate:  fare.Date(2026, time.March, 10),
		ReturnDate:  fare.Date(2026, time.March, 18),
		Cabin:       fare.PremiumEconomy,
	}
}

func TestNormalize_PrimarySchema(t *testing.T) {
	payload := []byte(`{"data":[{
		"price": {"grandTotal": "899.00", "currency": "NZD"},
		"validatingAirlineCodes": ["NZ"],
		"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "PREMIUM_ECONOMY"}]}],
		"itineraries": [
			{"segments": [{"departure": {"iataCode": "AKL", "at": "2026-03-10T08:30:00"}, "arrival": {"iataCode": "SYD"}, "carrierCode": "NZ"}]},
			{"segments": [{"departure": {"iataCode": "SYD", "at": "2026-03-18T17:05:00"}, "carrierCode": "NZ"}]}
		]
	}]}`)

	offers, skipped := New("NZD", nil).Normalize(testQuery(), payload)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}

	o := offers[0]
	if o.Price != 899 {
		t.Errorf("Price = %v, want 899", o.Price)
	}
	if o.Currency != "NZD" {
		t.Errorf("Currency = %q, want NZD", o.Currency)
	}
	if o.Cabin != fare.PremiumEconomy {
		t.Errorf("Cabin = %v, want premium economy", o.Cabin)
	}
	if got := o.DepartDate.Format(fare.DateLayout); got != "2026-03-10" {
		t.Errorf("DepartDate = %s, want 2026-03-10", got)
	}
	if got := o.ReturnDate.Format(fare.DateLayout); got != "2026-03-18" {
		t.Errorf("ReturnDate = %s, want 2026-03-18", got)
	}
	if o.Origin != "AKL" || o.Destination != "SYD" {
		t.Errorf("route = %s-%s, want AKL-SYD", o.Origin, o.Destination)
	}
	if o.MarketingCarrier != "NZ" {
		t.Errorf("MarketingCarrier = %q, want NZ", o.MarketingCarrier)
	}
}

func TestNormalize_AlternateLocations(t *testing.T) {
	// No grandTotal, cabin only on the segment, dates at the top level.
	payload := []byte(`{"data":[{
		"price": {"total": 1250.5, "currency": "NZD"},
		"departureDate": "2026-04-02",
		"returnDate": "2026-04-12",
		"itineraries": [{"segments": [{"cabinClass": "business", "carrierCode": "QF"}]}]
	}]}`)

	offers, skipped := New("NZD", nil).Normalize(testQuery(), payload)
	if skipped != 0 || len(offers) != 1 {
		t.Fatalf("offers=%d skipped=%d, want 1/0", len(offers), skipped)
	}
	o := offers[0]
	if o.Price != 1250.5 {
		t.Errorf("Price = %v, want 1250.5", o.Price)
	}
	if o.Cabin != fare.Business {
		t.Errorf("Cabin = %v, want business", o.Cabin)
	}
	if o.MarketingCarrier != "QF" {
		t.Errorf("MarketingCarrier = %q, want QF", o.MarketingCarrier)
	}
	// Origin and destination fall back to the query.
	if o.Origin != "AKL" || o.Destination != "SYD" {
		t.Errorf("route = %s-%s, want AKL-SYD", o.Origin, o.Destination)
	}
}

func TestNormalize_BareArrayPayload(t *testing.T) {
	payload := []byte(`[{
		"price": 780,
		"currency": "NZD",
		"fare_category": "W",
		"local_departure": "2026-05-01T09:00:00.000Z",
		"local_arrival": "2026-05-09T21:00:00.000Z",
		"flyFrom": "WLG",
		"flyTo": "MEL",
		"deep_link": "https://example.com/book/1"
	}]`)

	offers, skipped := New("NZD", nil).Normalize(testQuery(), payload)
	if skipped != 0 || len(offers) != 1 {
		t.Fatalf("offers=%d skipped=%d, want 1/0", len(offers), skipped)
	}
	o := offers[0]
	if o.Cabin != fare.PremiumEconomy {
		t.Errorf("Cabin = %v, want premium economy for fare class W", o.Cabin)
	}
	if o.Origin != "WLG" || o.Destination != "MEL" {
		t.Errorf("route = %s-%s, want WLG-MEL from payload", o.Origin, o.Destination)
	}
	if o.BookingLink != "https://example.com/book/1" {
		t.Errorf("BookingLink = %q", o.BookingLink)
	}
}

func TestNormalize_MandatoryFields(t *testing.T) {
	complete := `{
		"price": {"grandTotal": "899.00", "currency": "NZD"},
		"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
		"departureDate": "2026-03-10",
		"returnDate": "2026-03-18"
	}`

	tests := []struct {
		name    string
		payload string
	}{
		{"missing price", `{"data":[{
			"price": {"currency": "NZD"},
			"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
			"departureDate": "2026-03-10", "returnDate": "2026-03-18"
		}]}`},
		{"missing currency", `{"data":[{
			"price": {"grandTotal": "899.00"},
			"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
			"departureDate": "2026-03-10", "returnDate": "2026-03-18"
		}]}`},
		{"missing cabin", `{"data":[{
			"price": {"grandTotal": "899.00", "currency": "NZD"},
			"departureDate": "2026-03-10", "returnDate": "2026-03-18"
		}]}`},
		{"missing departure", `{"data":[{
			"price": {"grandTotal": "899.00", "currency": "NZD"},
			"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
			"returnDate": "2026-03-18"
		}]}`},
		{"missing return", `{"data":[{
			"price": {"grandTotal": "899.00", "currency": "NZD"},
			"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
			"departureDate": "2026-03-10"
		}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers, skipped := New("NZD", nil).Normalize(testQuery(), []byte(tt.payload))
			if len(offers) != 0 || skipped != 1 {
				t.Errorf("offers=%d skipped=%d, want 0/1", len(offers), skipped)
			}
		})
	}

	// Sanity: the complete item does normalize.
	offers, _ := New("NZD", nil).Normalize(testQuery(), []byte(`{"data":[`+complete+`]}`))
	if len(offers) != 1 {
		t.Fatalf("complete item should yield one offer, got %d", len(offers))
	}
}

func TestNormalize_WrongCurrencyDropped(t *testing.T) {
	payload := []byte(`{"data":[{
		"price": {"grandTotal": "650.00", "currency": "AUD"},
		"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
		"departureDate": "2026-03-10",
		"returnDate": "2026-03-18"
	}]}`)

	offers, skipped := New("NZD", nil).Normalize(testQuery(), payload)
	if len(offers) != 0 || skipped != 1 {
		t.Errorf("foreign-currency offer must be dropped, got offers=%d skipped=%d", len(offers), skipped)
	}
}

func TestNormalize_FaultIsolation(t *testing.T) {
	// First item is broken, second is fine.
	payload := []byte(`{"data":[
		{"price": "not a price"},
		{
			"price": {"grandTotal": "1100.00", "currency": "NZD"},
			"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}],
			"departureDate": "2026-06-01",
			"returnDate": "2026-06-10"
		}
	]}`)

	offers, skipped := New("NZD", nil).Normalize(testQuery(), payload)
	if len(offers) != 1 || skipped != 1 {
		t.Fatalf("offers=%d skipped=%d, want 1/1", len(offers), skipped)
	}
	if offers[0].Price != 1100 {
		t.Errorf("surviving offer has Price %v, want 1100", offers[0].Price)
	}
}

func TestNormalize_UnrecognizablePayload(t *testing.T) {
	for _, payload := range []string{`{"meta":{"count":0}}`, `"just a string"`, `{}`} {
		offers, skipped := New("NZD", nil).Normalize(testQuery(), []byte(payload))
		if len(offers) != 0 || skipped != 0 {
			t.Errorf("payload %s: offers=%d skipped=%d, want 0/0", payload, len(offers), skipped)
		}
	}
}

func TestLookup(t *testing.T) {
	it := item{
		"itineraries": []any{
			map[string]any{"segments": []any{
				map[string]any{"cabin": "BUSINESS"},
			}},
		},
	}

	if v, ok := lookup(it, "itineraries.0.segments.0.cabin"); !ok || v != "BUSINESS" {
		t.Errorf("indexed lookup = %v/%v", v, ok)
	}
	if v, ok := lookup(it, "itineraries.*.segments.*.cabin"); !ok || v != "BUSINESS" {
		t.Errorf("wildcard lookup = %v/%v", v, ok)
	}
	if _, ok := lookup(it, "itineraries.5.segments.0.cabin"); ok {
		t.Error("out-of-range index should miss")
	}
	if _, ok := lookup(it, "price.total"); ok {
		t.Error("absent path should miss")
	}
}
