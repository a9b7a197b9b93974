package config

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "mt5bridge-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.MetricsAddr != ":9109" {
		t.Fatalf("unexpected App.MetricsAddr: %s", cfg.App.MetricsAddr)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if cfg.Bridge.Library != "mt5bridge.dll" {
		t.Fatalf("unexpected Bridge.Library: %s", cfg.Bridge.Library)
	}
	if cfg.Bridge.PythonHome != `C:\runtime\py_runtime` {
		t.Fatalf("unexpected Bridge.PythonHome: %s", cfg.Bridge.PythonHome)
	}
	if cfg.Trade.Symbol != "EURUSD" {
		t.Fatalf("unexpected Trade.Symbol: %s", cfg.Trade.Symbol)
	}
	if cfg.Trade.BarCount != 10 {
		t.Fatalf("unexpected Trade.BarCount: %d", cfg.Trade.BarCount)
	}
	if cfg.Trade.Volume != 0.1 {
		t.Fatalf("unexpected Trade.Volume: %.2f", cfg.Trade.Volume)
	}
	if cfg.Trade.PlaceBuy {
		t.Fatalf("expected PlaceBuy disabled in testdata")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := &Config{
		App:    App{Name: "roundtrip", LogLevel: "warn"},
		Bridge: Bridge{Library: "bridge.dll", PythonHome: "py_runtime"},
		Trade:  Trade{Symbol: "GBPUSD", BarCount: 5, Volume: 0.2},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch: %+v != %+v", got, want)
	}
}

func TestSaveNil(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "config.yaml"), nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
