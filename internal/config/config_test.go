package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audience "github.com/reoring/audience"
	"github.com/reoring/audience/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, audience.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "error", cfg.DuplicateKeys)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, "go-json", cfg.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_OverridesAndDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("max_depth: 8\nduplicate_keys: warn\nlang: ja\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, "ja", cfg.Lang)
	assert.Equal(t, "go-json", cfg.Driver)

	opt := cfg.ParseOpt()
	assert.Equal(t, audience.Warn, opt.Strictness.OnDuplicateKey)
	assert.Equal(t, 8, opt.MaxDepth)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "max_dept: 3\n",
		"bad policy":     "duplicate_keys: sometimes\n",
		"bad driver":     "driver: simdjson\n",
		"negative bytes": "max_bytes: -1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "audience.yaml")
	require.NoError(t, os.WriteFile(p, []byte("max_bytes: 1024\n"), 0o600))

	t.Setenv(config.EnvConfigPath, p)
	assert.Equal(t, p, config.Path(""))
	assert.Equal(t, "other.yaml", config.Path("other.yaml"))

	cfg, err := config.Load(config.Path(""))
	require.NoError(t, err)
	assert.EqualValues(t, 1024, cfg.MaxBytes)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
