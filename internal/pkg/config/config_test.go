package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvString(t *testing.T) {
	t.Setenv("SCOUT_TEST_STRING", "custom")
	assert.Equal(t, "custom", LoadEnvString("SCOUT_TEST_STRING", "default"))
	assert.Equal(t, "default", LoadEnvString("SCOUT_TEST_UNSET", "default"))
}

func TestLoadEnvWithFallback(t *testing.T) {
	t.Run("unset uses default without warning", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_CRON", "")
		result := LoadEnvWithFallback("SCOUT_TEST_CRON", "30 5 * * *", ValidateCronSchedule)
		assert.Equal(t, "30 5 * * *", result.Value)
		assert.False(t, result.FallbackApplied)
		assert.Empty(t, result.Warnings)
	})

	t.Run("valid value passes", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_CRON", "*/10 * * * *")
		result := LoadEnvWithFallback("SCOUT_TEST_CRON", "30 5 * * *", ValidateCronSchedule)
		assert.Equal(t, "*/10 * * * *", result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("invalid value falls back with warning", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_CRON", "not a cron")
		result := LoadEnvWithFallback("SCOUT_TEST_CRON", "30 5 * * *", ValidateCronSchedule)
		assert.Equal(t, "30 5 * * *", result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Len(t, result.Warnings, 1)
	})
}

func TestLoadEnvDuration(t *testing.T) {
	validator := func(d time.Duration) error {
		return ValidateDuration(d, time.Minute, time.Hour)
	}

	t.Run("valid", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_DUR", "30m")
		result := LoadEnvDuration("SCOUT_TEST_DUR", 10*time.Minute, validator)
		assert.Equal(t, 30*time.Minute, result.Value)
	})

	t.Run("unparsable falls back", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_DUR", "soon")
		result := LoadEnvDuration("SCOUT_TEST_DUR", 10*time.Minute, validator)
		assert.Equal(t, 10*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
	})

	t.Run("out of range falls back", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_DUR", "5s")
		result := LoadEnvDuration("SCOUT_TEST_DUR", 10*time.Minute, validator)
		assert.Equal(t, 10*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
	})
}

func TestLoadEnvInt(t *testing.T) {
	validator := func(v int) error { return ValidateIntRange(v, 1, 100) }

	t.Run("valid", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_INT", "42")
		result := LoadEnvInt("SCOUT_TEST_INT", 10, validator)
		assert.Equal(t, 42, result.Value)
	})

	t.Run("non-numeric falls back", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_INT", "many")
		result := LoadEnvInt("SCOUT_TEST_INT", 10, validator)
		assert.Equal(t, 10, result.Value)
		assert.True(t, result.FallbackApplied)
	})

	t.Run("out of range falls back", func(t *testing.T) {
		t.Setenv("SCOUT_TEST_INT", "500")
		result := LoadEnvInt("SCOUT_TEST_INT", 10, validator)
		assert.Equal(t, 10, result.Value)
		assert.True(t, result.FallbackApplied)
	})
}

func TestLoadEnvBool(t *testing.T) {
	t.Setenv("SCOUT_TEST_BOOL", "true")
	assert.Equal(t, true, LoadEnvBool("SCOUT_TEST_BOOL", false).Value)

	t.Setenv("SCOUT_TEST_BOOL", "yes please")
	result := LoadEnvBool("SCOUT_TEST_BOOL", false)
	assert.Equal(t, false, result.Value)
	assert.True(t, result.FallbackApplied)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("*/10 * * * *"))
	assert.Error(t, ValidateCronSchedule(""))
	assert.Error(t, ValidateCronSchedule("61 * * * *"))

	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))

	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateIntRange(5, 1, 10))
	assert.Error(t, ValidateIntRange(0, 1, 10))
}
