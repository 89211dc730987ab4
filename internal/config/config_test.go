package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"APP_NAME", "DATA_DIR", "KEY_FILE", "HEADER", "PRODUCTS", "LOG_LEVEL", "DEVELOPMENT"} {
		t.Setenv(EnvPrefix+"_"+name, "")
		os.Unsetenv(EnvPrefix + "_" + name)
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("LICENSES_DATA_DIR", dir)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "licensekey.txt", cfg.KeyFile)
	assert.Equal(t, []string{"BRIMBLE", "RUNNER"}, cfg.Products)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Development)
	assert.Equal(t, filepath.Join(dir, "licensekey.txt"), cfg.KeyFilePath())
}

func TestLoadUsesAppDataDir(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	base, err := os.UserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "brimble"), cfg.DataDir)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
key_file: keys.txt
header: Keys from file
products: [FILEPRODUCT]
log_level: info
development: true
data_dir: /somewhere/else
`)
	t.Setenv("LICENSES_DATA_DIR", dir)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "keys.txt", cfg.KeyFile)
	assert.Equal(t, "Keys from file", cfg.Header)
	assert.Equal(t, []string{"FILEPRODUCT"}, cfg.Products)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Development)

	t.Setenv("LICENSES_PRODUCTS", "ENVPRODUCT, OTHER")
	t.Setenv("LICENSES_LOG_LEVEL", "error")

	cfg, err = Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ENVPRODUCT", "OTHER"}, cfg.Products)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "keys.txt", cfg.KeyFile)

	cfg, err = Load(Overrides{Products: []string{"FLAG"}, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FLAG"}, cfg.Products)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDataDirOverride(t *testing.T) {
	clearEnv(t)
	envDir := t.TempDir()
	flagDir := t.TempDir()
	writeConfig(t, flagDir, "key_file: from-flag-dir.txt\ndata_dir: /somewhere/else\n")
	t.Setenv("LICENSES_DATA_DIR", envDir)

	cfg, err := Load(Overrides{DataDir: flagDir})
	require.NoError(t, err)
	assert.Equal(t, flagDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(flagDir, "from-flag-dir.txt"), cfg.KeyFilePath())
}

func TestLoadFileCannotMoveDataDir(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)

	base, err := os.UserConfigDir()
	require.NoError(t, err)
	appDir := filepath.Join(base, "brimble")
	require.NoError(t, os.MkdirAll(appDir, 0700))
	writeConfig(t, appDir, "data_dir: /somewhere/else\n")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, appDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(appDir, "licensekey.txt"), cfg.KeyFilePath())
}

func TestLoadAbsoluteKeyFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	keyFile := filepath.Join(t.TempDir(), "elsewhere.txt")
	t.Setenv("LICENSES_DATA_DIR", dir)
	t.Setenv("LICENSES_KEY_FILE", keyFile)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, keyFile, cfg.KeyFilePath())
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	t.Run("bad yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "products: [unterminated\n")
		_, err := Load(Overrides{DataDir: dir})
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("no products", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "products: ['  ']\nkey_file: ''\n")
		_, err := Load(Overrides{DataDir: dir})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one product name is required")
		assert.Contains(t, err.Error(), "key file name is required")
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("LICENSES_DEVELOPMENT", "perhaps")
		_, err := Load(Overrides{DataDir: t.TempDir()})
		assert.ErrorContains(t, err, "failed to load config from env")
	})
}
