package internal

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	// The credential store persists a JSON record; the default path
	// should say so.
	if ext := filepath.Ext(cfg.Credentials.Path); ext != ".json" {
		t.Errorf("default credentials path %q should have a .json extension", cfg.Credentials.Path)
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 8080 should pass: %v", err)
	}
	if addr := cfg.Address(); addr != ":8080" {
		t.Errorf("Address() = %q", addr)
	}
}

func TestCatalogConfig_PathRequired(t *testing.T) {
	cfg := CatalogConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty catalog path should fail validation")
	}
}

func TestCredentialsConfig_PathRequired(t *testing.T) {
	cfg := CredentialsConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty credentials path should fail validation")
	}
}

func TestEventsConfig_NegativeThrottle(t *testing.T) {
	cfg := EventsConfig{AggregateThrottle: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("negative throttle should fail validation")
	}
	cfg.AggregateThrottle = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero throttle should pass: %v", err)
	}
}
