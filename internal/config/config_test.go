package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: console
server:
  address: ":9090"
backend:
  baseUrl: "https://api.example.test"
  timeoutSeconds: 3
cache:
  redisAddress: "localhost:6379"
  ttlSeconds: 60
rates:
  - frequency: MONTHLY
    annualRatePercent: 4.99
    periodCap: 12
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug/console", conf.Logging)
	}
	if conf.Server.Address != ":9090" {
		t.Errorf("Server.Address = %s, expected :9090", conf.Server.Address)
	}
	if conf.Backend.BaseURL != "https://api.example.test" {
		t.Errorf("Backend.BaseURL = %s", conf.Backend.BaseURL)
	}
	if conf.BackendTimeout() != 3*time.Second {
		t.Errorf("BackendTimeout = %v, expected 3s", conf.BackendTimeout())
	}
	if conf.Cache.RedisAddress != "localhost:6379" {
		t.Errorf("Cache.RedisAddress = %s", conf.Cache.RedisAddress)
	}
	if conf.CacheTTL() != time.Minute {
		t.Errorf("CacheTTL = %v, expected 1m", conf.CacheTTL())
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}

	if conf.Server.Address == "" {
		t.Error("Server.Address default not applied")
	}
	if conf.Backend.TimeoutSeconds <= 0 {
		t.Error("Backend.TimeoutSeconds default not applied")
	}
}

func TestBuildRateTableDefaults(t *testing.T) {
	conf := &Configuration{}

	table, err := conf.BuildRateTable()
	if err != nil {
		t.Fatalf("BuildRateTable returned error: %v", err)
	}

	entry, err := table.RateFor(plan.FrequencyMonthly)
	if err != nil {
		t.Fatalf("RateFor returned error: %v", err)
	}
	if entry.AnnualRatePercent != 5.99 || entry.PeriodCap != 24 {
		t.Errorf("monthly entry = %+v, expected default 5.99%%/cap 24", entry)
	}
}

func TestBuildRateTableOverrides(t *testing.T) {
	conf := &Configuration{
		Rates: []RateConfig{
			{Frequency: "MONTHLY", AnnualRatePercent: 4.99, PeriodCap: 12},
		},
	}

	table, err := conf.BuildRateTable()
	if err != nil {
		t.Fatalf("BuildRateTable returned error: %v", err)
	}

	monthly, err := table.RateFor(plan.FrequencyMonthly)
	if err != nil {
		t.Fatalf("RateFor returned error: %v", err)
	}
	if monthly.AnnualRatePercent != 4.99 || monthly.PeriodCap != 12 {
		t.Errorf("monthly entry = %+v, expected override 4.99%%/cap 12", monthly)
	}

	// Untouched frequencies keep their defaults.
	weekly, err := table.RateFor(plan.FrequencyWeekly)
	if err != nil {
		t.Fatalf("RateFor returned error: %v", err)
	}
	if weekly.AnnualRatePercent != 6.99 {
		t.Errorf("weekly rate = %v, expected default 6.99", weekly.AnnualRatePercent)
	}
}

func TestBuildRateTableRejectsUnknownFrequency(t *testing.T) {
	conf := &Configuration{
		Rates: []RateConfig{
			{Frequency: "DAILY", AnnualRatePercent: 1.0, PeriodCap: 365},
		},
	}

	if _, err := conf.BuildRateTable(); err == nil {
		t.Fatal("expected an error for an unsupported frequency override")
	}
}
