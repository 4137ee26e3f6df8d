package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWindowDaysBounds(t *testing.T) {
	for _, bad := range []string{"4", "366", "0", "-1", "abc", "5.5", ""} {
		_, ok := parseWindowDays(bad)
		assert.False(t, ok, "window %q не должен приниматься", bad)
	}
	for _, good := range []string{"5", "30", "365"} {
		_, ok := parseWindowDays(good)
		assert.True(t, ok, "window %q должен приниматься", good)
	}
}

func TestParseSMAPeriodBounds(t *testing.T) {
	for _, bad := range []string{"1", "0", "101", "twenty", ""} {
		_, ok := parseSMAPeriod(bad)
		assert.False(t, ok, "sma_period %q не должен приниматься", bad)
	}
	for _, good := range []string{"2", "20", "100"} {
		_, ok := parseSMAPeriod(good)
		assert.True(t, ok, "sma_period %q должен приниматься", good)
	}
}

func TestParseMultiplierBounds(t *testing.T) {
	for _, bad := range []string{"0.9", "51", "nan", ""} {
		_, ok := parseMultiplier(bad)
		assert.False(t, ok, "multiplicator %q не должен приниматься", bad)
	}

	f, ok := parseMultiplier("3.5")
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)

	_, ok = parseMultiplier("1")
	assert.True(t, ok)
	_, ok = parseMultiplier("50")
	assert.True(t, ok)
}

func TestAllowedIntervals(t *testing.T) {
	assert.True(t, isAllowedInterval("60"))
	assert.True(t, isAllowedInterval("D"))
	assert.False(t, isAllowedInterval("2"))
	assert.False(t, isAllowedInterval("d"))
}
