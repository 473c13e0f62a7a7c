package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmcnabb/farewatch/pkg/fare"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "farewatch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("explicit missing path should fail")
	}

	// No explicit path and no file in the working directory: defaults.
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}
	if len(cfg.Routes) != 2 {
		t.Errorf("default routes = %v", cfg.Routes)
	}
	if cfg.Currency != "NZD" {
		t.Errorf("default currency = %q, want NZD", cfg.Currency)
	}
	if cfg.Cabins["premium_economy"] != 1300 || cfg.Cabins["business"] != 1500 {
		t.Errorf("default caps = %v", cfg.Cabins)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
routes = ["WLG:BNE"]
currency = "AUD"
min_nights = 5
max_nights = 9
report_path = "out/fares.html"

[cabins]
business = 2000

[cache]
backend = "none"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Routes) != 1 || cfg.Routes[0] != "WLG:BNE" {
		t.Errorf("Routes = %v", cfg.Routes)
	}
	if cfg.Currency != "AUD" {
		t.Errorf("Currency = %q", cfg.Currency)
	}
	if cfg.Cabins["business"] != 2000 {
		t.Errorf("Cabins = %v", cfg.Cabins)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.ReportPath != "out/fares.html" {
		t.Errorf("ReportPath = %q", cfg.ReportPath)
	}
	// Untouched keys keep their defaults.
	if cfg.DateStepDays != 10 {
		t.Errorf("DateStepDays = %d, want default 10", cfg.DateStepDays)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("FAREWATCH_CURRENCY", "USD")
	t.Setenv("AMADEUS_CLIENT_ID", "id-from-env")
	t.Setenv("AMADEUS_CLIENT_SECRET", "secret-from-env")

	path := writeConfig(t, `currency = "AUD"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, env should win over file", cfg.Currency)
	}
	if cfg.Amadeus.ClientID != "id-from-env" || cfg.Amadeus.ClientSecret != "secret-from-env" {
		t.Error("credentials should come from the environment")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad route", `routes = ["AKLSYD"]`},
		{"identical pair", `routes = ["AKL:AKL"]`},
		{"bad currency", `currency = "nzd$"`},
		{"unknown cabin", "[cabins]\nsteerage = 100"},
		{"negative cap", "[cabins]\nbusiness = -5"},
		{"bad cache backend", "[cache]\nbackend = \"tape\""},
		{"bad delivery mode", "[delivery]\nmode = \"pigeon\""},
		{"broken toml", `routes = [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("config %q should be rejected", tt.content)
			}
		})
	}
}

func TestConfig_ScanRequest(t *testing.T) {
	cfg := Default()
	req, err := cfg.ScanRequest()
	if err != nil {
		t.Fatalf("ScanRequest failed: %v", err)
	}
	if len(req.Routes) != 2 {
		t.Errorf("Routes = %v", req.Routes)
	}
	if req.Caps[fare.PremiumEconomy] != 1300 || req.Caps[fare.Business] != 1500 {
		t.Errorf("Caps = %v", req.Caps)
	}
	if req.MinNights != 8 || req.MaxNights != 12 {
		t.Errorf("nights = %d-%d, want 8-12", req.MinNights, req.MaxNights)
	}
	if err := req.ValidateAndSetDefaults(); err != nil {
		t.Errorf("derived request should validate: %v", err)
	}
}
