// Package logging builds the zap logger used across the tool. Logs go to
// stderr so they never mix with license views printed on stdout.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/brimblehq/licenses/internal/types"
)

func New(level string, development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if strings.TrimSpace(level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

func Nop() *zap.Logger {
	return zap.NewNop()
}

// MaskKey keeps the first and last four characters of a key.
func MaskKey(key types.LicenseKey) string {
	if len(key) <= 8 {
		return "****"
	}
	return string(key[:4]) + "****" + string(key[len(key)-4:])
}

func Key(key types.LicenseKey) zap.Field {
	return zap.String("license_key", MaskKey(key))
}
