package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

const maxCapacity = 255

var (
	errInvalidCapacity = errors.New("config: capacity must be between 1 and 255")
	errInvalidInterval = errors.New("config: intervals must be positive")
	errInvalidBatch    = errors.New("config: batch size must be positive")
)

type Config struct {
	Capacity int    `yaml:"capacity"`
	Channel  string `yaml:"channel"`

	SampleInterval time.Duration `yaml:"sample_interval"`
	DrainInterval  time.Duration `yaml:"drain_interval"`
	BatchSize      int           `yaml:"batch_size"`

	QuestDB      string `yaml:"questdb"`
	QuestDBTable string `yaml:"questdb_table"`

	OTLP bool `yaml:"otlp"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Capacity: 64,
		Channel:  "sensor_0",

		SampleInterval: 10 * time.Millisecond,
		DrainInterval:  250 * time.Millisecond,
		BatchSize:      16,

		QuestDBTable: "ring_samples",
	}
}

// LoadConfig reads a YAML file on top of the default config.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Capacity < 1 || cfg.Capacity > maxCapacity {
		return fmt.Errorf("%w: got %d", errInvalidCapacity, cfg.Capacity)
	}

	if cfg.SampleInterval <= 0 || cfg.DrainInterval <= 0 {
		return errInvalidInterval
	}

	if cfg.BatchSize <= 0 {
		return errInvalidBatch
	}

	return nil
}

func bindConfigFlags(flags *pflag.FlagSet) {
	defaults := NewDefaultConfig()

	flags.String("config", "", "YAML config file")
	flags.Int("capacity", defaults.Capacity, "ring buffer capacity (1-255)")
	flags.String("channel", defaults.Channel, "sensor channel name")
	flags.Duration("interval", defaults.SampleInterval, "sampling interval")
	flags.Duration("drain-interval", defaults.DrainInterval, "drain interval")
	flags.Int("batch", defaults.BatchSize, "drain batch size")
	flags.String("questdb", "", "QuestDB address, samples are logged when empty")
	flags.String("questdb-table", defaults.QuestDBTable, "QuestDB table")
	flags.Bool("otlp", false, "export traces and metrics over OTLP")
}

// configFromFlags loads the config file, if any, and applies the flags
// that were explicitly set on top of it.
func configFromFlags(flags *pflag.FlagSet) (*Config, error) {
	cfg := NewDefaultConfig()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	if path != "" {
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		var err error

		switch f.Name {
		case "capacity":
			cfg.Capacity, err = flags.GetInt(f.Name)
		case "channel":
			cfg.Channel, err = flags.GetString(f.Name)
		case "interval":
			cfg.SampleInterval, err = flags.GetDuration(f.Name)
		case "drain-interval":
			cfg.DrainInterval, err = flags.GetDuration(f.Name)
		case "batch":
			cfg.BatchSize, err = flags.GetInt(f.Name)
		case "questdb":
			cfg.QuestDB, err = flags.GetString(f.Name)
		case "questdb-table":
			cfg.QuestDBTable, err = flags.GetString(f.Name)
		case "otlp":
			cfg.OTLP, err = flags.GetBool(f.Name)
		}

		if err != nil {
			errs = append(errs, err)
		}
	})

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
