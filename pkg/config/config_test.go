package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	URL     string `env:"TEST_CFG_URL,required"`
	Minutes int    `env:"TEST_CFG_MINUTES" envDefault:"30"`
	Algo    string `env:"TEST_CFG_ALGO" envDefault:"HS256"`
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_URL", "postgres://localhost/cards")
	t.Setenv("TEST_CFG_MINUTES", "45")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "postgres://localhost/cards", cfg.URL)
	assert.Equal(t, 45, cfg.Minutes)
	assert.Equal(t, "HS256", cfg.Algo)
}

func TestLoadFrom_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadFrom(&cfg, map[string]string{"TEST_CFG_URL": "x"}))

	assert.Equal(t, 30, cfg.Minutes)
	assert.Equal(t, "HS256", cfg.Algo)
}

func TestLoad_LowerCaseNames(t *testing.T) {
	t.Setenv("test_cfg_url", "postgres://localhost/cards")
	t.Setenv("test_cfg_minutes", "15")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "postgres://localhost/cards", cfg.URL)
	assert.Equal(t, 15, cfg.Minutes)
}

func TestLoadFrom_UpperCaseWinsOverOtherSpellings(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadFrom(&cfg, map[string]string{
		"test_cfg_url":  "lower",
		"TEST_CFG_URL":  "upper",
		"Test_Cfg_Algo": "HS512",
	}))

	assert.Equal(t, "upper", cfg.URL)
	assert.Equal(t, "HS512", cfg.Algo)
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	var cfg testConfig
	err := LoadFrom(&cfg, map[string]string{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_CFG_URL")
}

func TestLoadFrom_UnknownKeysIgnored(t *testing.T) {
	var cfg testConfig
	err := LoadFrom(&cfg, map[string]string{
		"TEST_CFG_URL":    "x",
		"SOMETHING_ELSE":  "ignored",
		"VITE_API_SERVER": "http://localhost:8000",
	})
	assert.NoError(t, err)
}

func TestLoadFrom_InvalidInt(t *testing.T) {
	var cfg testConfig
	err := LoadFrom(&cfg, map[string]string{"TEST_CFG_URL": "x", "TEST_CFG_MINUTES": "soon"})
	assert.Error(t, err)
}

func TestLoad_NonPointer(t *testing.T) {
	assert.Error(t, Load(testConfig{}))
}
