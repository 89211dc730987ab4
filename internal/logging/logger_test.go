package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("debug", false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("warn", true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New("", false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", MaskKey(""))
	assert.Equal(t, "****", MaskKey("12345678"))
	assert.Equal(t, "eJyr****AAA=", MaskKey("eJyrVkrLz1eyUkpKLFLSUcrPSykCAAA="))

	field := Key("eJyrVkrLz1eyUkpKLFLSUcrPSykCAAA=")
	assert.Equal(t, "license_key", field.Key)
	assert.Equal(t, "eJyr****AAA=", field.String)
}
