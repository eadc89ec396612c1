// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/internal/rates"
	"github.com/dhiadhaw0/installment-engine/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the installment engine.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Backend BackendConfig `yaml:"backend,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Rates   []RateConfig  `yaml:"rates,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`
}

// BackendConfig points at the remote collaborator that owns eligibility,
// credits, persistence, and payment history.
type BackendConfig struct {
	BaseURL        string `yaml:"baseUrl,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// CacheConfig configures the optional read cache for flow-entry calls.
type CacheConfig struct {
	RedisAddress string `yaml:"redisAddress,omitempty"` // empty disables redis
	TTLSeconds   int    `yaml:"ttlSeconds,omitempty"`
}

// RateConfig overrides one rate table entry.
type RateConfig struct {
	Frequency         string  `yaml:"frequency"`
	AnnualRatePercent float64 `yaml:"annualRatePercent"`
	PeriodCap         int     `yaml:"periodCap"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file at the default location is not an
// error; the compiled defaults apply.
func LoadConfiguration(configPath string) (*Configuration, error) {
	var configuration Configuration

	if _, err := os.Stat(configPath); os.IsNotExist(err) && configPath == constants.DefaultConfigFile {
		applyDefaults(&configuration)
		return &configuration, nil
	}

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	applyDefaults(&configuration)
	return &configuration, nil
}

func applyDefaults(conf *Configuration) {
	if conf.Server.Address == "" {
		conf.Server.Address = constants.DefaultServerAddress
	}
	if conf.Backend.TimeoutSeconds <= 0 {
		conf.Backend.TimeoutSeconds = constants.DefaultBackendTimeoutSeconds
	}
}

// BackendTimeout returns the configured backend timeout as a duration.
func (conf *Configuration) BackendTimeout() time.Duration {
	return time.Duration(conf.Backend.TimeoutSeconds) * time.Second
}

// CacheTTL returns the configured cache TTL as a duration.
func (conf *Configuration) CacheTTL() time.Duration {
	return time.Duration(conf.Cache.TTLSeconds) * time.Second
}

// BuildRateTable merges the configured rate overrides over the default
// table. An override with an unsupported frequency is rejected.
func (conf *Configuration) BuildRateTable() (*rates.Table, error) {
	if len(conf.Rates) == 0 {
		return rates.NewDefaultTable(), nil
	}

	defaults := rates.NewDefaultTable()
	entries := defaults.Entries()

	for _, override := range conf.Rates {
		frequency := plan.Frequency(override.Frequency)
		if !frequency.Valid() {
			return nil, fmt.Errorf("%w: %q in rates configuration", rates.ErrUnknownFrequency, override.Frequency)
		}
		for i := range entries {
			if entries[i].Frequency != frequency {
				continue
			}
			if override.AnnualRatePercent > 0 {
				entries[i].AnnualRatePercent = override.AnnualRatePercent
			}
			if override.PeriodCap > 0 {
				entries[i].PeriodCap = override.PeriodCap
			}
		}
	}

	return rates.NewTable(entries), nil
}
