// Package config loads scan configuration from a TOML file, layered with
// environment variables and built-in defaults. File values override
// defaults; environment variables override both. Secrets only ever come
// from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rmcnabb/farewatch/pkg/errors"
	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/scan"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "farewatch.toml"

// Config is the full runtime configuration.
type Config struct {
	// Routes are directed "ORIGIN:DEST" pairs to scan.
	Routes []string `toml:"routes"`

	// Cabins maps cabin names to their price cap, inclusive, in Currency.
	Cabins map[string]float64 `toml:"cabins"`

	Currency string `toml:"currency"`
	Airline  string `toml:"airline"`

	HorizonMonths int `toml:"horizon_months"`
	MinNights     int `toml:"min_nights"`
	MaxNights     int `toml:"max_nights"`
	DateStepDays  int `toml:"date_step_days"`
	FlexDays      int `toml:"flex_days"`

	Workers int `toml:"workers"`

	// ReportPath is where scan writes the HTML report. Empty skips the file.
	ReportPath string `toml:"report_path"`

	// ReportTitle heads the HTML report and the delivery subject.
	ReportTitle string `toml:"report_title"`

	// PaceMillis is the minimum gap between provider requests across all
	// workers; JitterMillis adds up to that much random extra per request.
	PaceMillis   int `toml:"pace_ms"`
	JitterMillis int `toml:"jitter_ms"`

	Amadeus  AmadeusConfig  `toml:"amadeus"`
	Cache    CacheConfig    `toml:"cache"`
	Delivery DeliveryConfig `toml:"delivery"`
}

// AmadeusConfig holds the provider endpoints. Credentials come from the
// environment, never from the file.
type AmadeusConfig struct {
	BaseURL  string `toml:"base_url"`
	TokenURL string `toml:"token_url"`

	ClientID     string `toml:"-"`
	ClientSecret string `toml:"-"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "mongo" or "none".
	Backend string `toml:"backend"`

	Dir string `toml:"dir"` // file backend

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"-"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI string `toml:"mongo_uri"`
}

// DeliveryConfig controls where scan reports go.
type DeliveryConfig struct {
	// Mode is one of "none", "email" or "webhook".
	Mode string `toml:"mode"`

	// DryRun renders the report but delivers nothing.
	DryRun bool `toml:"dry_run"`

	From string   `toml:"from"`
	To   []string `toml:"to"`

	WebhookURL string `toml:"webhook_url"`

	BrevoAPIKey string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Routes:        []string{"AKL:SYD", "AKL:MEL"},
		Cabins:        map[string]float64{"premium_economy": 1300, "business": 1500},
		Currency:      "NZD",
		Airline:       "NZ",
		HorizonMonths: 3,
		MinNights:     8,
		MaxNights:     12,
		DateStepDays:  10,
		FlexDays:      2,
		Workers:       4,
		PaceMillis:    1500,
		JitterMillis:  500,
		Cache:         CacheConfig{Backend: "file", Dir: ".farewatch-cache"},
		Delivery:      DeliveryConfig{Mode: "none"},
	}
}

// Load builds the effective configuration. A missing file at the default
// path is fine; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return Config{}, errors.Wrap(errors.ErrCodeConfigMissing, err, "read config %s", path)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Amadeus.ClientID = os.Getenv("AMADEUS_CLIENT_ID")
	c.Amadeus.ClientSecret = os.Getenv("AMADEUS_CLIENT_SECRET")
	c.Cache.RedisPassword = os.Getenv("REDIS_PASSWORD")
	c.Delivery.BrevoAPIKey = os.Getenv("BREVO_API_KEY")

	if v := os.Getenv("FAREWATCH_CURRENCY"); v != "" {
		c.Currency = v
	}
	if v := os.Getenv("FAREWATCH_AIRLINE"); v != "" {
		c.Airline = v
	}
	if v := os.Getenv("FAREWATCH_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("FAREWATCH_WEBHOOK_URL"); v != "" {
		c.Delivery.WebhookURL = v
	}
	if v := os.Getenv("FAREWATCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
}

func (c *Config) validate() error {
	if len(c.Routes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no routes configured")
	}
	for _, r := range c.Routes {
		if err := errors.ValidateRoutePair(r); err != nil {
			return err
		}
	}
	if err := errors.ValidateCurrencyCode(c.Currency); err != nil {
		return err
	}
	for name, cap := range c.Cabins {
		if fare.ParseCabin(name) == fare.CabinUnknown {
			return errors.New(errors.ErrCodeInvalidCabin, "unknown cabin %q", name)
		}
		if err := errors.ValidatePriceCap(cap); err != nil {
			return err
		}
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "mongo", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Delivery.Mode {
	case "", "none", "email", "webhook":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown delivery mode %q", c.Delivery.Mode)
	}
	return nil
}

// ScanRequest converts the configuration into a scan request.
func (c Config) ScanRequest() (scan.Request, error) {
	req := scan.Request{
		Caps:          make(map[fare.Cabin]float64, len(c.Cabins)),
		HorizonMonths: c.HorizonMonths,
		MinNights:     c.MinNights,
		MaxNights:     c.MaxNights,
		DateStepDays:  c.DateStepDays,
		FlexDays:      c.FlexDays,
		Currency:      c.Currency,
		Airline:       c.Airline,
		Workers:       c.Workers,
	}
	for _, s := range c.Routes {
		route, err := scan.ParseRoute(s)
		if err != nil {
			return scan.Request{}, err
		}
		req.Routes = append(req.Routes, route)
	}
	for name, cap := range c.Cabins {
		cabin := fare.ParseCabin(name)
		if cabin == fare.CabinUnknown {
			return scan.Request{}, errors.New(errors.ErrCodeInvalidCabin, "unknown cabin %q", name)
		}
		req.Caps[cabin] = cap
	}
	return req, nil
}

// Pace returns the request pacing as durations.
func (c Config) Pace() (interval, jitter time.Duration) {
	return time.Duration(c.PaceMillis) * time.Millisecond,
		time.Duration(c.JitterMillis) * time.Millisecond
}
