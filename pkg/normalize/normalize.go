// Package normalize converts raw provider payloads into canonical offers.
//
// Provider responses are schema-unstable: fields move between locations,
// prices arrive as numbers or strings, timestamps carry or omit zones.
// The normalizer probes a fixed sequence of known locations per field and
// drops any item that lacks a mandatory one. A bad item never sinks its
// siblings; normalization is fault-isolated per offer.
package normalize

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/provider"
)

// Normalizer turns one raw search payload into zero or more offers.
type Normalizer struct {
	// Currency is the scan's reporting currency. Items priced in any other
	// currency are dropped rather than converted.
	Currency string

	Logger *log.Logger
}

// New creates a Normalizer for the given reporting currency.
func New(currency string, logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{Currency: currency, Logger: logger}
}

// Normalize extracts canonical offers from a raw payload. It returns the
// offers that carried every mandatory field in the reporting currency,
// plus the count of items skipped. An unrecognizable payload shape yields
// zero offers, never an error; the caller already classified transport
// failures.
func (n *Normalizer) Normalize(q provider.Query, payload provider.RawPayload) (offers []fare.Offer, skipped int) {
	items := decodeItems(payload)
	for i, it := range items {
		offer, err := n.offer(q, it)
		if err != nil {
			skipped++
			n.Logger.Debug("skipping offer", "route", q.Origin+"-"+q.Destination, "item", i, "reason", err)
			continue
		}
		offers = append(offers, offer)
	}
	return offers, skipped
}

// decodeItems accepts the two payload shapes providers use: an object with
// a "data" array, or a bare array of offer records.
func decodeItems(payload provider.RawPayload) []item {
	var wrapped struct {
		Data []item `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data
	}
	var bare []item
	if err := json.Unmarshal(payload, &bare); err == nil {
		return bare
	}
	return nil
}

// offer builds one canonical offer from one decoded item. The five
// mandatory fields (price, currency, cabin, both dates) must come from the
// item itself; only origin and destination are inherited from the query.
func (n *Normalizer) offer(q provider.Query, it item) (fare.Offer, error) {
	price, ok := it.priceAt(pricePaths...)
	if !ok {
		return fare.Offer{}, missingFieldError{"price"}
	}
	currency, ok := it.stringAt(currencyPaths...)
	if !ok {
		return fare.Offer{}, missingFieldError{"currency"}
	}
	if currency != n.Currency {
		return fare.Offer{}, unexpectedCurrencyError{got: currency, want: n.Currency}
	}
	cabin, ok := it.cabinAt(cabinPaths...)
	if !ok {
		return fare.Offer{}, missingFieldError{"cabin"}
	}
	depart, ok := it.dateAt(departPaths...)
	if !ok {
		return fare.Offer{}, missingFieldError{"departure date"}
	}
	ret, ok := it.dateAt(returnPaths...)
	if !ok {
		return fare.Offer{}, missingFieldError{"return date"}
	}

	o := fare.Offer{
		Origin:      q.Origin,
		Destination: q.Destination,
		DepartDate:  depart,
		ReturnDate:  ret,
		Cabin:       cabin,
		Price:       price,
		Currency:    currency,
	}
	if origin, ok := it.stringAt(originPaths...); ok {
		o.Origin = origin
	}
	if dest, ok := it.stringAt(destinationPaths...); ok {
		o.Destination = dest
	}
	o.MarketingCarrier, _ = it.stringAt(marketingPaths...)
	o.OperatingCarrier, _ = it.stringAt(operatingPaths...)
	o.BookingLink, _ = it.stringAt(linkPaths...)
	return o, nil
}

type unexpectedCurrencyError struct{ got, want string }

func (e unexpectedCurrencyError) Error() string {
	return "offer priced in " + e.got + ", scan wants " + e.want
}
