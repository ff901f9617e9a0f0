package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// MetricsConfig holds the analytic constants shared by the metric
// calculators. Values are hot-reloadable from metrics.yml so operators can
// adjust assumptions without a restart.
type MetricsConfig struct {
	AssumedCAC            float64 `mapstructure:"assumedCac"`
	AttributionWindowDays int     `mapstructure:"attributionWindowDays"`
	CohortHorizonMonths   int     `mapstructure:"cohortHorizonMonths"`
	LookbackMonths        int     `mapstructure:"lookbackMonths"`
	MRREpoch              string  `mapstructure:"mrrEpoch"`
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		AssumedCAC:            50,
		AttributionWindowDays: 90,
		CohortHorizonMonths:   12,
		LookbackMonths:        24,
	}
}

// MRREpochTime parses the configured epoch, zero when unset.
func (c MetricsConfig) MRREpochTime() time.Time {
	if strings.TrimSpace(c.MRREpoch) == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", c.MRREpoch)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type MetricsConfigHolder struct {
	current atomic.Value // holds MetricsConfig
}

func NewMetricsConfigHolder() (*MetricsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("metrics")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/metrica/config")
	v.AddConfigPath("/etc/metrica")
	v.AddConfigPath(".")

	v.SetEnvPrefix("METRICA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultMetricsConfig()
	v.SetDefault("metrics.assumedCac", defaults.AssumedCAC)
	v.SetDefault("metrics.attributionWindowDays", defaults.AttributionWindowDays)
	v.SetDefault("metrics.cohortHorizonMonths", defaults.CohortHorizonMonths)
	v.SetDefault("metrics.lookbackMonths", defaults.LookbackMonths)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg MetricsConfig
	if err := v.UnmarshalKey("metrics", &cfg); err != nil {
		return nil, err
	}
	if err := validateMetricsConfig(cfg); err != nil {
		return nil, err
	}

	holder := &MetricsConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated MetricsConfig
		if err := v.UnmarshalKey("metrics", &updated); err != nil {
			log.Printf("[metrics-config] reload failed: %v", err)
			return
		}
		if err := validateMetricsConfig(updated); err != nil {
			log.Printf("[metrics-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[metrics-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *MetricsConfigHolder) Get() MetricsConfig {
	return h.current.Load().(MetricsConfig)
}

func validateMetricsConfig(cfg MetricsConfig) error {
	if cfg.AssumedCAC <= 0 {
		return errors.New("metrics.assumedCac must be positive")
	}
	if cfg.AttributionWindowDays < 0 {
		return errors.New("metrics.attributionWindowDays cannot be negative")
	}
	if cfg.CohortHorizonMonths < 0 {
		return errors.New("metrics.cohortHorizonMonths cannot be negative")
	}
	if cfg.LookbackMonths <= 0 {
		return errors.New("metrics.lookbackMonths must be positive")
	}
	return nil
}
