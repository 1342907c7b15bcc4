package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.GetTimeout())
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 5, cfg.Search.MaxConcurrent)
	assert.Equal(t, 10, cfg.Search.NumResults)
	assert.Equal(t, 3, cfg.Search.RecentMonths)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.DSN)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `dsn = "postgres://serchr@localhost/serchr?sslmode=disable"

[browser]
headless = false
timeout = "45s"

[search]
max_concurrent = 8
num_results = 20

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Browser.GetTimeout())
	assert.Equal(t, 8, cfg.Search.MaxConcurrent)
	assert.Equal(t, 20, cfg.Search.NumResults)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Search.RecentMonths, "unset fields keep defaults")
	assert.NotEmpty(t, cfg.DSN)
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"timeout too short", "[browser]\ntimeout = \"2s\"\n"},
		{"timeout too long", "[browser]\ntimeout = \"5m\"\n"},
		{"too many workers", "[search]\nmax_concurrent = 50\n"},
		{"zero results", "[search]\nnum_results = 0\n"},
		{"months out of range", "[search]\nrecent_months = 36\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[browser\nheadless=maybe"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	b := BrowserConfig{Timeout: "not a duration"}
	assert.Equal(t, 30*time.Second, b.GetTimeout())

	s := SearchConfig{MinDelay: "", MaxDelay: "bogus"}
	assert.Equal(t, time.Second, s.GetMinDelay())
	assert.Equal(t, 3*time.Second, s.GetMaxDelay())
}

func TestValidateQuery(t *testing.T) {
	got, err := ValidateQuery("  golang generics  ")
	require.NoError(t, err)
	assert.Equal(t, "golang generics", got)

	_, err = ValidateQuery("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = ValidateQuery(strings.Repeat("q", MaxQueryLength+1))
	assert.Error(t, err)

	got, err = ValidateQuery(strings.Repeat("q", MaxQueryLength))
	require.NoError(t, err)
	assert.Len(t, got, MaxQueryLength)
}
