package manager

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/brimblehq/licenses/internal/license"
	"github.com/brimblehq/licenses/internal/store"
	"github.com/brimblehq/licenses/internal/types"
)

func TestSessionAddRefreshesCurrent(t *testing.T) {
	s := newFileStore(t)
	validator := license.NewValidator("BRIMBLE")
	clock := today
	session := NewSession(s, NewResolver(s, validator, nil), func() time.Time { return clock }, nil)

	active, err := session.Refresh()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, session.Current())

	record, err := session.Add(encode(t, "A", "20240620", "BRIMBLE"))
	require.NoError(t, err)
	assert.Equal(t, "A", record.Name)
	require.NotNil(t, session.Current())
	assert.Equal(t, "A", session.Current().Name)

	_, err = session.Add("rubbish")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, "A", session.Current().Name)

	// the remembered license goes stale until the next refresh
	clock = today.AddDate(0, 1, 0)
	assert.NotNil(t, session.Current())
	active, err = session.Refresh()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, session.Current())
}

func TestSessionEntries(t *testing.T) {
	s := newFileStore(t)
	session := NewSession(s, NewResolver(s, license.NewValidator("BRIMBLE"), nil), func() time.Time { return today }, nil)

	_, err := session.Add(encode(t, "A", "20300101", "BRIMBLE"))
	require.NoError(t, err)

	entries, err := session.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Active)
	assert.Equal(t, today, session.Now())
}

type acceptAll struct{}

func (acceptAll) AddKey(key types.LicenseKey, today time.Time) (types.LicenseRecord, error) {
	return types.LicenseRecord{Name: "Stored", Key: key}, nil
}

func TestSessionAddSurvivesRefreshFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	keys := staticKeys{err: errors.New("disk gone")}
	session := NewSession(acceptAll{}, NewResolver(keys, license.NewValidator("BRIMBLE"), nil), func() time.Time { return today }, zap.New(core))

	record, err := session.Add("some-key")
	require.NoError(t, err)
	assert.Equal(t, "Stored", record.Name)
	assert.Nil(t, session.Current())

	entries := logs.FilterMessageSnippet("could not be refreshed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk gone", entries[0].ContextMap()["error"])
}
