package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
token = "abc"
base_url = "http://localhost:1234"
log_level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "http://localhost:1234", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_UnknownKeyFatal(t *testing.T) {
	path := writeConfig(t, `tokken = "typo"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
	assert.Contains(t, err.Error(), "tokken")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "loud"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolve_OverrideChain(t *testing.T) {
	path := writeConfig(t, `token = "from-file"`)

	t.Run("file only", func(t *testing.T) {
		cfg, err := Resolve(EnvOverrides{ConfigPath: path}, CLIOverrides{})
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Token)
	})

	t.Run("env beats file", func(t *testing.T) {
		cfg, err := Resolve(EnvOverrides{ConfigPath: path, Token: "from-env"}, CLIOverrides{})
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Token)
	})

	t.Run("flag beats env", func(t *testing.T) {
		cfg, err := Resolve(
			EnvOverrides{ConfigPath: path, Token: "from-env"},
			CLIOverrides{Token: "from-flag"},
		)
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Token)
	})

	t.Run("cli config path beats env config path", func(t *testing.T) {
		other := writeConfig(t, `token = "from-other-file"`)

		cfg, err := Resolve(EnvOverrides{ConfigPath: path}, CLIOverrides{ConfigPath: other})
		require.NoError(t, err)
		assert.Equal(t, "from-other-file", cfg.Token)
	})
}

func TestReadEnvOverrides(t *testing.T) {
	t.Setenv("GDRIVE_TOKEN", "env-token")
	t.Setenv("GDRIVE_CONFIG", "/tmp/cfg.toml")

	env := ReadEnvOverrides()
	assert.Equal(t, "env-token", env.Token)
	assert.Equal(t, "/tmp/cfg.toml", env.ConfigPath)
}
