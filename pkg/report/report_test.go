package report

import (
	"strings"
	"testing"
	"time"

	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/scan"
)

func testResult() *scan.Result {
	offers := []fare.Offer{
		{
			Origin: "AKL", Destination: "SYD",
			DepartDate: fare.Date(2026, time.March, 10),
			ReturnDate: fare.Date(2026, time.March, 20),
			Cabin:      fare.PremiumEconomy,
			Price:      899, Currency: "NZD",
			MarketingCarrier: "NZ",
			BookingLink:      "https://example.com/book/abc",
		},
		{
			Origin: "AKL", Destination: "MEL",
			DepartDate: fare.Date(2026, time.April, 2),
			ReturnDate: fare.Date(2026, time.April, 11),
			Cabin:      fare.Business,
			Price:      1450, Currency: "NZD",
			MarketingCarrier: "NZ",
		},
	}
	return &scan.Result{
		RunID:   "run-test-1",
		Started: fare.Date(2026, time.February, 20),
		Window:  "2026-02-21 to 2026-05-20",
		Offers:  offers,
		Months:  fare.GroupByMonth(offers),
	}
}

func TestBuilder_HTML(t *testing.T) {
	html, err := New("Fare watch", "NZD").HTML(testResult())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	doc := string(html)

	for _, want := range []string{
		"March 2026",
		"April 2026",
		"Auckland → Sydney",
		"Auckland → Melbourne",
		"NZD 899",
		"NZD 1450",
		"Premium Economy",
		"Business",
		`href="https://example.com/book/abc"`,
		"run-test-1",
		"Premium Economy from NZD 899",
		"Business from NZD 1450",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Months appear chronologically.
	if strings.Index(doc, "March 2026") > strings.Index(doc, "April 2026") {
		t.Error("months out of order")
	}
}

func TestBuilder_HTML_Empty(t *testing.T) {
	result := &scan.Result{
		RunID:   "run-empty",
		Started: fare.Date(2026, time.February, 20),
		Window:  "2026-02-21 to 2026-05-20",
	}
	html, err := New("Fare watch", "NZD").HTML(result)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(string(html), "No fares under your price caps") {
		t.Error("empty report should say so")
	}
}

func TestBuilder_HTML_EscapesPayloadText(t *testing.T) {
	result := testResult()
	result.Offers[0].BookingLink = "javascript:alert(1)"
	result.Months = fare.GroupByMonth(result.Offers)

	html, err := New("Fare watch", "NZD").HTML(result)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), `href="javascript:alert(1)"`) {
		t.Error("unsafe booking link rendered verbatim")
	}
}

func TestBuilder_Subject(t *testing.T) {
	b := New("Fare watch", "NZD")

	if got := b.Subject(testResult()); !strings.Contains(got, "2 fares") || !strings.Contains(got, "NZD 899") {
		t.Errorf("Subject = %q", got)
	}
	if got := b.Subject(&scan.Result{}); !strings.Contains(got, "no fares") {
		t.Errorf("empty Subject = %q", got)
	}
}

func TestAirportName(t *testing.T) {
	if got := AirportName("AKL"); got != "Auckland" {
		t.Errorf("AirportName(AKL) = %q", got)
	}
	if got := AirportName("XXX"); got != "XXX" {
		t.Errorf("unknown code should fall back to itself, got %q", got)
	}
	if got := RouteLabel("AKL", "SYD"); got != "Auckland → Sydney" {
		t.Errorf("RouteLabel = %q", got)
	}
}
