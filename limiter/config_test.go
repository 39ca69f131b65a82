package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_Duration(t *testing.T) {
	cases := []struct {
		unit Unit
		want time.Duration
	}{
		{UnitSecond, time.Second},
		{UnitMinute, time.Minute},
		{UnitHour, time.Hour},
		{UnitDay, 24 * time.Hour},
	}

	for _, tc := range cases {
		got, err := tc.unit.Duration()
		require.NoError(t, err, "unit %q", tc.unit)
		assert.Equal(t, tc.want, got)
	}

	_, err := Unit("week").Duration()
	assert.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Unit: UnitSecond, Capacity: 3}
	cfg.ApplyDefaults()

	assert.Equal(t, time.Second, cfg.Backoff)
	assert.Equal(t, 100, cfg.EventBusBuffer)

	// explicit values survive
	cfg = Config{Unit: UnitSecond, Capacity: 3, Backoff: 50 * time.Millisecond, EventBusBuffer: 7}
	cfg.ApplyDefaults()
	assert.Equal(t, 50*time.Millisecond, cfg.Backoff)
	assert.Equal(t, 7, cfg.EventBusBuffer)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Unit: UnitMinute, Capacity: 5, Backoff: time.Second}
	assert.NoError(t, valid.Validate())

	invalidUnit := Config{Unit: "century", Capacity: 5}
	assert.ErrorIs(t, invalidUnit.Validate(), ErrUnsupportedUnit)

	invalidCapacity := Config{Unit: UnitMinute, Capacity: 0}
	assert.Error(t, invalidCapacity.Validate())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, UnitMinute, cfg.Unit)
	assert.Equal(t, int64(5), cfg.Capacity)
}

func TestUnits(t *testing.T) {
	units := Units()
	assert.Len(t, units, 4)
	for _, u := range units {
		_, err := u.Duration()
		assert.NoError(t, err)
	}
}
