// Package scan plans and executes fare discovery runs.
//
// A scan expands a small request (routes, cabins, a date horizon, a stay
// window) into the full set of concrete search queries, fans them out over
// a bounded worker pool, and folds the surviving offers into one ranked,
// deduplicated, month-grouped result.
package scan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rmcnabb/farewatch/pkg/errors"
	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/provider"
)

const (
	defaultHorizonMonths = 3
	defaultDateStepDays  = 10
	defaultWorkers       = 4
)

// Route is one directed origin/destination pair.
type Route struct {
	Origin      string
	Destination string
}

// ParseRoute parses "AKL:SYD" into a Route.
func ParseRoute(s string) (Route, error) {
	if err := errors.ValidateRoutePair(s); err != nil {
		return Route{}, err
	}
	origin, dest, _ := strings.Cut(strings.ToUpper(s), ":")
	return Route{Origin: origin, Destination: dest}, nil
}

func (r Route) String() string { return r.Origin + ":" + r.Destination }

// Request describes one scan: which routes and cabins to probe, how far
// ahead to look, and how the probing is paced.
type Request struct {
	Routes []Route

	// Caps maps each cabin of interest to its maximum acceptable price,
	// inclusive, in Currency. Cabins absent from the map are not searched
	// and never pass the filter.
	Caps map[fare.Cabin]float64

	// HorizonMonths bounds departure dates to [start, start+HorizonMonths).
	HorizonMonths int

	// MinNights and MaxNights bound the acceptable stay length, inclusive.
	MinNights int
	MaxNights int

	// DateStepDays is the gap between successive probed departure dates.
	DateStepDays int

	// FlexDays lets the provider substitute nearby dates.
	FlexDays int

	Currency string
	Airline  string

	// Workers bounds concurrent in-flight queries.
	Workers int
}

// ValidateAndSetDefaults checks the request and fills zero values.
func (r *Request) ValidateAndSetDefaults() error {
	if len(r.Routes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one route is required")
	}
	for _, route := range r.Routes {
		if err := errors.ValidateRoutePair(route.String()); err != nil {
			return err
		}
	}
	if len(r.Caps) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one cabin with a price cap is required")
	}
	for cabin, cap := range r.Caps {
		if cabin == fare.CabinUnknown {
			return errors.New(errors.ErrCodeInvalidCabin, "unknown cabin in price caps")
		}
		if err := errors.ValidatePriceCap(cap); err != nil {
			return err
		}
	}
	if err := errors.ValidateCurrencyCode(r.Currency); err != nil {
		return err
	}
	if r.MinNights < 0 || r.MaxNights < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "night bounds must not be negative")
	}
	if r.HorizonMonths <= 0 {
		r.HorizonMonths = defaultHorizonMonths
	}
	if r.DateStepDays <= 0 {
		r.DateStepDays = defaultDateStepDays
	}
	if r.Workers <= 0 {
		r.Workers = defaultWorkers
	}
	return nil
}

// Cabins returns the requested cabins in a stable order.
func (r Request) Cabins() []fare.Cabin {
	cabins := make([]fare.Cabin, 0, len(r.Caps))
	for c := range r.Caps {
		cabins = append(cabins, c)
	}
	sort.Slice(cabins, func(i, j int) bool { return cabins[i] < cabins[j] })
	return cabins
}

// Queries expands the request into concrete search queries, starting from
// the day after start. The expansion is deterministic: routes in request
// order, cabins sorted, departure dates ascending, stay lengths ascending.
//
// An inverted night window (MinNights > MaxNights) yields no queries.
func (r Request) Queries(start time.Time) []provider.Query {
	offsets := nightOffsets(r.MinNights, r.MaxNights)
	if len(offsets) == 0 {
		return nil
	}

	first := fare.Truncate(start).AddDate(0, 0, 1)
	end := addMonths(fare.Truncate(start), r.HorizonMonths)

	var queries []provider.Query
	for _, route := range r.Routes {
		for _, cabin := range r.Cabins() {
			for depart := first; depart.Before(end); depart = depart.AddDate(0, 0, r.DateStepDays) {
				for _, nights := range offsets {
					queries = append(queries, provider.Query{
						Origin:      route.Origin,
						Destination: route.Destination,
						DepartDate:  depart,
						ReturnDate:  depart.AddDate(0, 0, nights),
						Cabin:       cabin,
						FlexDays:    r.FlexDays,
					})
				}
			}
		}
	}
	return queries
}

// nightOffsets picks up to three representative stay lengths from the
// window: the shortest, the midpoint, and the longest.
func nightOffsets(min, max int) []int {
	if min > max {
		return nil
	}
	if min == max {
		return []int{min}
	}
	mid := (min + max) / 2
	if mid == min || mid == max {
		return []int{min, max}
	}
	return []int{min, mid, max}
}

// addMonths advances t by the given number of calendar months, clamping
// the day to the target month's length instead of rolling over. Jan 31
// plus one month is Feb 28 (or 29), not Mar 2 or 3.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return fare.Date(first.Year(), first.Month(), day)
}

// Window describes the departure-date range a request covers, for logs
// and report headers.
func (r Request) Window(start time.Time) string {
	first := fare.Truncate(start).AddDate(0, 0, 1)
	end := addMonths(fare.Truncate(start), r.HorizonMonths)
	return fmt.Sprintf("%s to %s", first.Format(fare.DateLayout), end.AddDate(0, 0, -1).Format(fare.DateLayout))
}
