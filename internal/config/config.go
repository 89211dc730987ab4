// Package config resolves the tool's settings once at startup. Values come
// from built-in defaults, then <data dir>/config.yaml, then LICENSES_*
// environment variables, then command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/brimblehq/licenses/internal/helpers"
	"github.com/brimblehq/licenses/internal/types"
)

const (
	EnvPrefix      = "LICENSES"
	ConfigFileName = "config.yaml"
)

// Overrides come from command-line flags. Zero values are ignored.
type Overrides struct {
	DataDir  string
	Products []string
	LogLevel string
}

func Default() types.Config {
	return types.Config{
		AppName:  "brimble",
		KeyFile:  "licensekey.txt",
		Header:   "List of license keys for Brimble",
		Products: []string{"BRIMBLE", "RUNNER"},
		LogLevel: "warn",
	}
}

func Load(overrides Overrides) (*types.Config, error) {
	cfg := Default()

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	overrides.apply(&cfg)

	if cfg.DataDir == "" {
		dir, err := appDataDir(cfg.AppName)
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	// the file may not move the data dir it was read from
	dataDir := cfg.DataDir
	if err := loadFile(filepath.Join(dataDir, ConfigFileName), &cfg); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	overrides.apply(&cfg)
	cfg.DataDir = dataDir

	cfg.Products = cleanProducts(cfg.Products)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (o Overrides) apply(cfg *types.Config) {
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if len(o.Products) > 0 {
		cfg.Products = o.Products
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
}

func appDataDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

func loadFile(path string, cfg *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func cleanProducts(products []string) []string {
	var cleaned []string
	for _, p := range products {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

func validate(cfg types.Config) error {
	var errs []error

	if strings.TrimSpace(cfg.AppName) == "" {
		errs = append(errs, errors.New("app name is required"))
	}
	if strings.TrimSpace(cfg.KeyFile) == "" {
		errs = append(errs, errors.New("key file name is required"))
	}
	if len(cfg.Products) == 0 {
		errs = append(errs, errors.New("at least one product name is required"))
	}

	return helpers.ProcessErrors(errs)
}
