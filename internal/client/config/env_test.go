package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	cfg := defaults()
	err := parseEnv(cfg, mapLookup(map[string]string{
		EnvAPIURL:          "https://api.example.com/",
		EnvRefreshInterval: "2m",
		EnvRequestTimeout:  "15s",
		EnvPassphrase:      "hunter2",
		EnvAgencyUserID:    "7",
		EnvLogFormat:       "",
	}))
	require.NoError(t, err)

	want := defaults()
	want.APIURL = "https://api.example.com/"
	want.RefreshInterval = 2 * time.Minute
	want.RequestTimeout = 15 * time.Second
	want.Passphrase = "hunter2"
	want.AgencyUserID = 7
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_Invalid(t *testing.T) {
	for key, val := range map[string]string{
		EnvRefreshInterval: "soon",
		EnvRequestTimeout:  "10",
		EnvAgencyUserID:    "admin",
	} {
		err := parseEnv(defaults(), mapLookup(map[string]string{key: val}))
		assert.ErrorContains(t, err, key)
	}
}

func TestEnvLookup_DotEnvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ROSENBLUM_LOG_LEVEL=debug\nROSENBLUM_COOKIE_DB=dotenv.db\n"), 0o600))
	t.Setenv(EnvCookieDB, "process.db")

	lookup := envLookup(path)

	v, ok := lookup(EnvLogLevel)
	assert.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = lookup(EnvCookieDB)
	assert.True(t, ok)
	assert.Equal(t, "process.db", v, "process environment wins over .env")

	_, ok = envLookup(filepath.Join(t.TempDir(), "none"))(EnvPassphrase + "_UNSET")
	assert.False(t, ok)
}
