package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reggate/internal/gatekeeper/settings"
)

func TestDefaultSite(t *testing.T) {
	site := settings.DefaultSite()
	require.False(t, site.Enabled)
	require.Equal(t, 100, site.MaxPoints)
	require.NotEmpty(t, site.DenyMessage)
}

func TestMemoryStoreSite(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemory(settings.DefaultSite())

	site, err := store.SiteSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, settings.DefaultSite(), site)

	site.Enabled = true
	site.MaxPoints = 75
	site.DenyMessage = "no"
	require.NoError(t, store.SaveSiteSettings(ctx, site))

	got, err := store.SiteSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, site, got)
}

func TestMemoryStorePluginSettings(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemory(settings.DefaultSite())

	value, err := store.PluginSetting(ctx, "captcha", "apikey")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, store.SavePluginSetting(ctx, "captcha", "apikey", "k1"))
	require.NoError(t, store.SavePluginSetting(ctx, "captcha", "apikey", "k2"))

	value, err = store.PluginSetting(ctx, "captcha", "apikey")
	require.NoError(t, err)
	require.Equal(t, "k2", value)

	// Keys are namespaced per rule type.
	value, err = store.PluginSetting(ctx, "timegate", "apikey")
	require.NoError(t, err)
	require.Empty(t, value)
}
