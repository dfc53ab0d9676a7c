package util

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TASKS_TEST_VALUE", "")
	assert.Equal(t, "fallback", EnvOrDefault("TASKS_TEST_VALUE", "fallback"))
	t.Setenv("TASKS_TEST_VALUE", "set")
	assert.Equal(t, "set", EnvOrDefault("TASKS_TEST_VALUE", "fallback"))
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TASKS_TEST_TIMEOUT", "")
	d, err := EnvDuration("TASKS_TEST_TIMEOUT", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	t.Setenv("TASKS_TEST_TIMEOUT", "250ms")
	d, err = EnvDuration("TASKS_TEST_TIMEOUT", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	t.Setenv("TASKS_TEST_TIMEOUT", "soon")
	_, err = EnvDuration("TASKS_TEST_TIMEOUT", time.Second)
	assert.ErrorContains(t, err, "TASKS_TEST_TIMEOUT")
}

func TestEnvBool(t *testing.T) {
	t.Setenv("TASKS_TEST_FLAG", "true")
	b, err := EnvBool("TASKS_TEST_FLAG", false)
	require.NoError(t, err)
	assert.True(t, b)

	t.Setenv("TASKS_TEST_FLAG", "maybe")
	_, err = EnvBool("TASKS_TEST_FLAG", false)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
