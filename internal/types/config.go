package types

import "path/filepath"

type Config struct {
	AppName     string   `yaml:"app_name" envconfig:"APP_NAME"`
	DataDir     string   `yaml:"data_dir" envconfig:"DATA_DIR"`
	KeyFile     string   `yaml:"key_file" envconfig:"KEY_FILE"`
	Header      string   `yaml:"header" envconfig:"HEADER"`
	Products    []string `yaml:"products" envconfig:"PRODUCTS"`
	LogLevel    string   `yaml:"log_level" envconfig:"LOG_LEVEL"`
	Development bool     `yaml:"development" envconfig:"DEVELOPMENT"`
}

func (c Config) KeyFilePath() string {
	if filepath.IsAbs(c.KeyFile) {
		return c.KeyFile
	}
	return filepath.Join(c.DataDir, c.KeyFile)
}
