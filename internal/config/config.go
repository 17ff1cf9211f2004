package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the CLI settings: device addressing, transfer timeout
// and download output location. Everything has a working default; the
// file and GL100_* environment variables only override.
type Config struct {
	Device   DeviceConfig   `mapstructure:"device" yaml:"device"`
	Transfer TransferConfig `mapstructure:"transfer" yaml:"transfer"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

type DeviceConfig struct {
	VendorID  uint16 `mapstructure:"vendor_id" yaml:"vendor_id"`
	ProductID uint16 `mapstructure:"product_id" yaml:"product_id"`
}

type TransferConfig struct {
	// TimeoutSeconds bounds each USB command/response round-trip.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type OutputConfig struct {
	// Directory receives downloaded WAV files when no explicit output
	// path is given. Empty means the current directory.
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// Default returns the built-in configuration for a stock GL100.
func Default() *Config {
	return &Config{
		Device:   DeviceConfig{VendorID: 0x34DB, ProductID: 0x0008},
		Transfer: TransferConfig{TimeoutSeconds: 5},
		Output:   OutputConfig{},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gl100", "config.yaml")
}

// Load reads configuration from path (or the default location when
// path is empty), layered over Default. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("device.vendor_id", def.Device.VendorID)
	v.SetDefault("device.product_id", def.Device.ProductID)
	v.SetDefault("transfer.timeout_seconds", def.Transfer.TimeoutSeconds)
	v.SetDefault("output.directory", def.Output.Directory)

	v.SetEnvPrefix("GL100")
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if explicit || !(errors.As(err, &nf) || os.IsNotExist(err)) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Transfer.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("transfer.timeout_seconds must be positive, got %d", cfg.Transfer.TimeoutSeconds)
	}
	return cfg, nil
}
