package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// check settings object is initialised with defaults
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()

	require.NotNil(t, tSettings.ChainCfgParams)
	require.NotNil(t, tSettings.Policy)
	require.NotNil(t, tSettings.BlockIndex.StoreURL)

	assert.Positive(t, tSettings.Policy.MinRelayTxFeePerK)
	assert.Positive(t, tSettings.Validator.BlockConcurrency)
	assert.Equal(t, time.Hour, tSettings.Stake.SeenCacheTTL)
	assert.NotEmpty(t, tSettings.BlockIndex.StoreURL.Scheme)
	assert.Equal(t, "memory", tSettings.UtxoStore.StoreURL.Scheme)
}

func TestHelpersDefaults(t *testing.T) {
	assert.Equal(t, "fallback", getString("settings_test_unset_key", "fallback"))
	assert.Equal(t, 42, getInt("settings_test_unset_key", 42))
	assert.True(t, getBool("settings_test_unset_key", true))
	assert.Equal(t, "sqlitememory", getURL("settings_test_unset_key", "sqlitememory:///x").Scheme)
}
