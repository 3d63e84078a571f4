package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://school.instructure.com/api/v1"
token = "secret"

[downloads]
dir = "archive"
parallel = 4
delay_ms = 250

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://school.instructure.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "archive", cfg.Downloads.Dir)
	assert.Equal(t, 4, cfg.Downloads.Parallel)
	assert.Equal(t, 250, cfg.Downloads.DelayMS)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadUnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://x.test"
tokn = "typo"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
	assert.Contains(t, err.Error(), "tokn")
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "downloads", cfg.Downloads.Dir)
	assert.Equal(t, 1, cfg.Downloads.Parallel)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestResolveOverrideChain(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://file.test/api/v1"
token = "file-token"

[downloads]
dir = "file-dir"
`)

	env := EnvOverrides{
		ConfigPath:  path,
		Token:       "env-token",
		DownloadDir: "env-dir",
	}

	cli := CLIOverrides{
		DownloadDir: "cli-dir",
		Parallel:    3,
	}

	resolved, err := Resolve(env, cli)
	require.NoError(t, err)

	// File provides the base URL, env beats file for the token, CLI beats
	// env for the download dir.
	assert.Equal(t, "https://file.test/api/v1", resolved.BaseURL)
	assert.Equal(t, "env-token", resolved.Token)
	assert.Equal(t, "cli-dir", resolved.DownloadDir)
	assert.Equal(t, 3, resolved.Parallel)
	assert.Equal(t, time.Duration(0), resolved.Delay)
}

func TestResolveMissingToken(t *testing.T) {
	env := EnvOverrides{
		ConfigPath: filepath.Join(t.TempDir(), "nope.toml"),
		BaseURL:    "https://x.test/api/v1",
	}

	_, err := Resolve(env, CLIOverrides{})
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestResolveMissingBaseURL(t *testing.T) {
	env := EnvOverrides{
		ConfigPath: filepath.Join(t.TempDir(), "nope.toml"),
		Token:      "tok",
	}

	_, err := Resolve(env, CLIOverrides{})
	require.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestReadEnvOverrides(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://env.test/api/v1")
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvDownloadDir, "env-dir")

	env := ReadEnvOverrides()

	assert.Equal(t, "https://env.test/api/v1", env.BaseURL)
	assert.Equal(t, "env-token", env.Token)
	assert.Equal(t, "env-dir", env.DownloadDir)
}
