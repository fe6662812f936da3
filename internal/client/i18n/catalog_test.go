package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalogs(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "베이직", c.TierName(models.LocaleKo, models.TierBasic))
	assert.Equal(t, "스탠다드", c.TierName(models.LocaleKo, models.TierStandard))
	assert.Equal(t, "프리미엄", c.TierName(models.LocaleKo, models.TierPremium))
	assert.Equal(t, "Premium", c.TierName(models.LocaleEn, models.TierPremium))

	assert.Equal(t, "Device limit reached (3/3). Remove another device first.",
		c.T(models.LocaleEn, "gate.device_limit", 3, 3))
}

func TestLoad_KeysMatchAcrossLocales(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	for key := range c.messages[models.LocaleKo] {
		assert.True(t, c.Has(models.LocaleEn, key), "en is missing %q", key)
	}
	for key := range c.messages[models.LocaleEn] {
		assert.True(t, c.Has(models.LocaleKo, key), "ko is missing %q", key)
	}
}

func TestT_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"l/ko.yaml": {Data: []byte("ko:\n  a:\n    b: \"가\"\n  n: 3\n")},
		"l/en.yaml": {Data: []byte("en:\n  other: \"x\"\n")},
	}
	c, err := LoadFS(fsys, "l")
	require.NoError(t, err)

	assert.Equal(t, "가", c.T(models.LocaleEn, "a.b"), "falls back to ko")
	assert.Equal(t, "3", c.T(models.LocaleKo, "n"))
	assert.Equal(t, "missing.key", c.T(models.LocaleEn, "missing.key"))
}

func TestLoadFS_Empty(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{}, "l")
	require.Error(t, err)
}
