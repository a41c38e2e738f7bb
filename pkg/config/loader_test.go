package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/config"
)

type testConfig struct {
	Path    string        `env:"TEST_AUTH_PATH" envDefault:"./data"`
	Retries int           `env:"TEST_AUTH_RETRIES" envDefault:"3"`
	Wait    time.Duration `env:"TEST_AUTH_WAIT" envDefault:"5s"`
	Secret  string        `env:"TEST_AUTH_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_AUTH_PATH", "/var/lib/auth")
	t.Setenv("TEST_AUTH_SECRET", "hunter2")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "/var/lib/auth", cfg.Path)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 5*time.Second, cfg.Wait)
	assert.Equal(t, "hunter2", cfg.Secret)
}

func TestLoadMissingRequired(t *testing.T) {
	var cfg testConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadNilPointer(t *testing.T) {
	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoadPanics(t *testing.T) {
	var cfg testConfig
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}
