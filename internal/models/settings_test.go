package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullVars() map[string]string {
	return map[string]string{
		SettingWindow:       "30",
		SettingKline:        "60",
		SettingSMAPeriod:    "20",
		SettingMultiplier:   "3.5",
		SettingTPRate:       "0.02",
		SettingSLRate:       "0.01",
		SettingRiskLimit:    "0.8",
		SettingTradeEnabled: "1",
	}
}

func TestParseStrategySettings(t *testing.T) {
	s, err := ParseStrategySettings(fullVars())
	require.NoError(t, err)

	assert.Equal(t, 30, s.Window)
	assert.Equal(t, "60", s.Interval)
	assert.Equal(t, 20, s.SMAPeriod)
	assert.Equal(t, 3.5, s.VolumeMultiplier)
	assert.Equal(t, 0.02, s.TPRate)
	assert.Equal(t, 0.01, s.SLRate)
	assert.Equal(t, 0.8, s.RiskLimit)
	assert.True(t, s.TradingEnabled)
}

func TestParseStrategySettingsMissingKeyIsIncomplete(t *testing.T) {
	vars := fullVars()
	delete(vars, SettingSMAPeriod)

	_, err := ParseStrategySettings(vars)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSettingsIncomplete, "неполный набор — ждём, а не падаем")
}

func TestParseStrategySettingsBadValueIsFatal(t *testing.T) {
	vars := fullVars()
	vars[SettingMultiplier] = "три"

	_, err := ParseStrategySettings(vars)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSettingsIncomplete)
}

func TestParseStrategySettingsTradeFlag(t *testing.T) {
	vars := fullVars()
	vars[SettingTradeEnabled] = "0"
	s, err := ParseStrategySettings(vars)
	require.NoError(t, err)
	assert.False(t, s.TradingEnabled)

	vars[SettingTradeEnabled] = "yes"
	_, err = ParseStrategySettings(vars)
	assert.Error(t, err)
}

func TestParseStrategySettingsRejectsNonPositive(t *testing.T) {
	vars := fullVars()
	vars[SettingWindow] = "0"
	_, err := ParseStrategySettings(vars)
	assert.Error(t, err)
}

func TestCandleBody(t *testing.T) {
	green := Candle{Open: 10, Close: 12}
	assert.Equal(t, 12.0, green.BodyHigh())
	assert.Equal(t, 10.0, green.BodyLow())

	red := Candle{Open: 12, Close: 10}
	assert.Equal(t, 12.0, red.BodyHigh())
	assert.Equal(t, 10.0, red.BodyLow())
}
