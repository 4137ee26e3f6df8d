package runner

import (
	"testing"

	"breakout_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// окно с тремя историческими свечами объёма 30 (SMA=30) и последней
// свечой с заданными open/close/volume
func windowWith(t *testing.T, open, close, volume float64) *Window {
	t.Helper()
	w := NewWindow(3)
	w.Merge(
		mkCandle(100, 10, 10, 30),
		mkCandle(200, 10, 10, 30),
		mkCandle(300, 10, 10, 30),
		mkCandle(400, open, close, volume),
	)
	return w
}

func TestEvaluateLongBreakout(t *testing.T) {
	levels := models.LevelPair{Symbol: "BTCUSDT", Resistance: 12, Support: 9}

	// open под уровнем, close над, объём 100 > 30*3
	sig, ok := Evaluate(windowWith(t, 11, 13, 100), levels, 3)
	require.True(t, ok)
	assert.Equal(t, models.SideBuy, sig.Side)
	assert.Equal(t, 12.0, sig.Level)
	assert.Equal(t, 13.0, sig.Price)
	assert.InDelta(t, 30.0, sig.VolumeSMA, 1e-9)
}

func TestEvaluateOpenOnLevelCountsAsCrossing(t *testing.T) {
	levels := models.LevelPair{Resistance: 12, Support: 9}

	sig, ok := Evaluate(windowWith(t, 12, 13, 100), levels, 3)
	require.True(t, ok)
	assert.Equal(t, models.SideBuy, sig.Side)
}

func TestEvaluateAlreadyAboveIsNotBreakout(t *testing.T) {
	levels := models.LevelPair{Resistance: 12, Support: 9}

	// свеча целиком над уровнем: роста через уровень не было
	_, ok := Evaluate(windowWith(t, 12.5, 13, 100), levels, 3)
	assert.False(t, ok)
}

func TestEvaluateShortBreakout(t *testing.T) {
	levels := models.LevelPair{Resistance: 12, Support: 9}

	sig, ok := Evaluate(windowWith(t, 9.5, 8.5, 100), levels, 3)
	require.True(t, ok)
	assert.Equal(t, models.SideSell, sig.Side)
	assert.Equal(t, 9.0, sig.Level)
}

func TestEvaluateVolumeMustExceedThresholdStrictly(t *testing.T) {
	levels := models.LevelPair{Resistance: 12, Support: 9}

	// порог 30*3=90: ровно 90 не хватает, 100 хватает
	_, ok := Evaluate(windowWith(t, 11, 13, 90), levels, 3)
	assert.False(t, ok)

	_, ok = Evaluate(windowWith(t, 11, 13, 100), levels, 3)
	assert.True(t, ok)
}

func TestEvaluateNoSMANoSignal(t *testing.T) {
	levels := models.LevelPair{Resistance: 12, Support: 9}

	w := NewWindow(3)
	w.Merge(mkCandle(400, 11, 13, 1000)) // истории нет
	_, ok := Evaluate(w, levels, 3)
	assert.False(t, ok)
}
