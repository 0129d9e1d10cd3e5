package main

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

const (
	formatHex = "hex"
	formatDec = "dec"
)

var errUnknownFormat = errors.New("unknown number format")

type config struct {
	// Bit width used when --width is not given; 0 is the native uint width
	Width uint `mapstructure:"width" default:"64"`

	Format   string `mapstructure:"format" default:"hex"`
	LogLevel string `mapstructure:"log_level" default:"info"`
}

// loadConfig reads the optional config file and ALIGN_* environment
// variables on top of the struct defaults.
func loadConfig(path string) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix("align")

	for _, key := range []string{"width", "format", "log_level"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for '%s': %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from '%s': %w", path, err)
		}
	}

	config := &config{}

	if err := defaults.Set(config); err != nil {
		return nil, fmt.Errorf("failed to set config defaults: %w", err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Format != formatHex && config.Format != formatDec {
		return nil, fmt.Errorf("'%s': %w", config.Format, errUnknownFormat)
	}

	return config, nil
}
