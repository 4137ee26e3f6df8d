package runner

import (
	"time"

	"breakout_bot/internal/models"
)

// Evaluate проверяет последнюю свечу окна на пробой уровня с объёмом.
// Сигнал есть, когда объём СТРОГО выше SMA*multiplier и свеча пересекла
// уровень внутри себя: long — open <= resistance < close, short —
// open >= support > close. Свеча, целиком открывшаяся за уровнем,
// пробоем не считается.
func Evaluate(w *Window, levels models.LevelPair, multiplier float64) (models.Signal, bool) {
	last, ok := w.Last()
	if !ok {
		return models.Signal{}, false
	}

	sma, ok := w.VolumeSMA()
	if !ok || sma <= 0 {
		return models.Signal{}, false
	}
	if last.Volume <= sma*multiplier {
		return models.Signal{}, false
	}

	var (
		side  models.Side
		level float64
	)
	switch {
	case last.Open <= levels.Resistance && last.Close > levels.Resistance:
		side, level = models.SideBuy, levels.Resistance
	case last.Open >= levels.Support && last.Close < levels.Support:
		side, level = models.SideSell, levels.Support
	default:
		return models.Signal{}, false
	}

	return models.Signal{
		Symbol:     last.Symbol,
		Interval:   last.Interval,
		Side:       side,
		Price:      last.Close,
		Open:       last.Open,
		Volume:     last.Volume,
		VolumeSMA:  sma,
		Level:      level,
		Resistance: levels.Resistance,
		Support:    levels.Support,
		CreatedAt:  time.Now().UTC(),
	}, true
}
