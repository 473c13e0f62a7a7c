package errors

import "strings"

// ValidateLocationCode validates an IATA location code ("AKL", "SYD").
// Codes are exactly three ASCII letters; case is not normalized here.
func ValidateLocationCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidRoute, "location code cannot be empty")
	}
	if len(code) != 3 {
		return New(ErrCodeInvalidRoute, "location code %q must be 3 letters", code)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return New(ErrCodeInvalidRoute, "location code %q contains non-letter characters", code)
		}
	}
	return nil
}

// ValidateRoutePair validates a "ORIGIN:DEST" route specification.
func ValidateRoutePair(pair string) error {
	origin, dest, ok := strings.Cut(pair, ":")
	if !ok {
		return New(ErrCodeInvalidRoute, "route %q must have the form ORIGIN:DEST", pair)
	}
	if err := ValidateLocationCode(origin); err != nil {
		return err
	}
	if err := ValidateLocationCode(dest); err != nil {
		return err
	}
	if strings.EqualFold(origin, dest) {
		return New(ErrCodeInvalidRoute, "route %q has identical origin and destination", pair)
	}
	return nil
}

// ValidateCurrencyCode validates an ISO 4217 currency code ("NZD").
func ValidateCurrencyCode(code string) error {
	if len(code) != 3 {
		return New(ErrCodeInvalidCurrency, "currency code %q must be 3 letters", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return New(ErrCodeInvalidCurrency, "currency code %q must be uppercase letters", code)
		}
	}
	return nil
}

// ValidatePriceCap validates a per-cabin price cap.
func ValidatePriceCap(cap float64) error {
	if cap <= 0 {
		return New(ErrCodeInvalidInput, "price cap must be positive, got %v", cap)
	}
	return nil
}
