package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDurationValid(t *testing.T) {
    for _, d := range []Duration{DurationHour, DurationDay, DurationWeek, DurationMonth} {
        assert.True(t, d.Valid(), "tier %q should be valid", d)
    }
    assert.False(t, Duration("fortnight").Valid())
    assert.False(t, Duration("").Valid())
}

func TestDurationOffset(t *testing.T) {
    cases := []struct {
        tier Duration
        want time.Duration
    }{
        {DurationHour, time.Hour},
        {DurationDay, 24 * time.Hour},
        {DurationWeek, 7 * 24 * time.Hour},
        {DurationMonth, 30 * 24 * time.Hour},
    }
    for _, tc := range cases {
        assert.Equal(t, tc.want, tc.tier.Offset(), "tier %q", tc.tier)
    }
}

func TestDurationOffsetPanicsOnUnknownTier(t *testing.T) {
    require.Panics(t, func() { Duration("decade").Offset() })
}

func TestDurationLabel(t *testing.T) {
    assert.NotEmpty(t, DurationHour.Label())
    assert.NotEqual(t, DurationWeek.Label(), DurationMonth.Label())
}
