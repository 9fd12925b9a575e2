package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AIDESK_URL", "AIDESK_THEME", "AIDESK_TZ", "AIDESK_FOLLOW", "AIDESK_CACHE", "AIDESK_DEBUG", "AIDESK_TOKEN"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o600))
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.Server.URL)
	assert.Equal(t, 3, cfg.Calendar.AgendaDays)
	assert.Equal(t, 3*time.Minute, cfg.Calendar.HandshakeTimeout.Duration)
	assert.Equal(t, "at-end", cfg.Chat.Follow)
	assert.Equal(t, 4, cfg.Chat.Overscan)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
[server]
url = "https://desk.example.com"
timeout = "45s"

[chat]
follow = "always"
overscan = 2

[calendar]
agenda_days = 7
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://desk.example.com", cfg.Server.URL)
	assert.Equal(t, 45*time.Second, cfg.Server.Timeout.Duration)
	assert.Equal(t, "always", cfg.Chat.Follow)
	assert.Equal(t, 2, cfg.Chat.Overscan)
	assert.Equal(t, 7, cfg.Calendar.AgendaDays)
	// Untouched keys keep their defaults.
	assert.Equal(t, 6, cfg.Chat.FallbackHeight)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "[chat]\nfolow = \"always\"\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat.folow")
}

func TestLoad_InvalidValueFails(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "[chat]\nfollow = \"sometimes\"\n")
	_, err := Load(dir)
	require.Error(t, err)

	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "chat.follow", verrs[0].Field)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AIDESK_URL", "http://10.0.0.2:9000")
	t.Setenv("AIDESK_THEME", "light")
	t.Setenv("AIDESK_CACHE", "false")
	t.Setenv("AIDESK_TZ", "UTC")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:9000", cfg.Server.URL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "UTC", cfg.TimezoneName())
}

func TestValidate_CollectsEveryError(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "not a url"
	cfg.Chat.FallbackHeight = 0
	cfg.Calendar.AgendaDays = 0

	err := cfg.Validate()
	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "profile")
	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.Calendar.HandshakeTimeout = Duration{90 * time.Second}
	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCachePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/p", "cache.db"), cfg.CachePath("/p"))
	cfg.Cache.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.CachePath("/p"))
}

func TestDebugAndEnvToken(t *testing.T) {
	clearEnv(t)
	assert.False(t, Debug())
	t.Setenv("AIDESK_DEBUG", "1")
	assert.True(t, Debug())
	t.Setenv("AIDESK_TOKEN", " tok ")
	assert.Equal(t, "tok", EnvToken())
}

func TestWatch_DeliversReload(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "[ui]\ntheme = \"dark\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := Watch(ctx, dir)
	require.NoError(t, err)

	writeConfig(t, dir, "[ui]\ntheme = \"light\"\n")

	select {
	case ev := <-w.Events():
		require.NoError(t, ev.Err)
		assert.Equal(t, "light", ev.Config.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}

	cancel()
	for range w.Events() {
	}
}
