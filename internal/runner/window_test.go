package runner

import (
	"testing"

	"breakout_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkCandle(start int64, open, close, volume float64) models.Candle {
	return models.Candle{
		Symbol:   "BTCUSDT",
		Interval: "60",
		Start:    start,
		Open:     open,
		High:     close + 1,
		Low:      open - 1,
		Close:    close,
		Volume:   volume,
	}
}

func TestWindowMergeSortsAndDedups(t *testing.T) {
	w := NewWindow(3)

	w.Merge(mkCandle(300, 1, 2, 10))
	w.Merge(mkCandle(100, 1, 2, 10))
	w.Merge(mkCandle(200, 1, 2, 10))
	// повтор по Start замещает старую свечу
	w.Merge(mkCandle(200, 5, 6, 99))

	require.Equal(t, 3, w.Len())

	last, ok := w.Last()
	require.True(t, ok)
	assert.Equal(t, int64(300), last.Start)
}

func TestWindowCapsAtTwicePeriod(t *testing.T) {
	w := NewWindow(3)
	for i := int64(1); i <= 10; i++ {
		w.Merge(mkCandle(i*100, 1, 2, 10))
	}

	require.Equal(t, 6, w.Len()) // 2*period

	last, ok := w.Last()
	require.True(t, ok)
	assert.Equal(t, int64(1000), last.Start)
}

func TestVolumeSMAExcludesLastCandle(t *testing.T) {
	w := NewWindow(3)
	w.Merge(
		mkCandle(100, 1, 2, 10),
		mkCandle(200, 1, 2, 20),
		mkCandle(300, 1, 2, 30),
		mkCandle(400, 1, 2, 1000), // оцениваемая, в среднее не входит
	)

	sma, ok := w.VolumeSMA()
	require.True(t, ok)
	assert.InDelta(t, 20.0, sma, 1e-9)
}

func TestWindowResizeFollowsNewPeriod(t *testing.T) {
	w := NewWindow(5)
	for i := int64(1); i <= 10; i++ {
		w.Merge(mkCandle(i*100, 1, 2, float64(i*10)))
	}
	require.Equal(t, 10, w.Len())

	// сужение: лимит 2*period срабатывает сразу
	w.Resize(2)
	require.Equal(t, 4, w.Len())

	// SMA считается уже по новому периоду: свечи 800, 900 (объёмы 80, 90)
	sma, ok := w.VolumeSMA()
	require.True(t, ok)
	assert.InDelta(t, 85.0, sma, 1e-9)

	// расширение: окно доберёт историю живыми свечами
	w.Resize(4)
	_, ok = w.VolumeSMA()
	assert.False(t, ok, "4 свечей мало для периода 4")

	w.Merge(mkCandle(1100, 1, 2, 10))
	_, ok = w.VolumeSMA()
	assert.True(t, ok)
}

func TestVolumeSMANeedsPeriodPlusOne(t *testing.T) {
	w := NewWindow(3)
	w.Merge(
		mkCandle(100, 1, 2, 10),
		mkCandle(200, 1, 2, 20),
		mkCandle(300, 1, 2, 30),
	)

	_, ok := w.VolumeSMA()
	assert.False(t, ok, "period свечей без оцениваемой — среднего ещё нет")

	w.Merge(mkCandle(400, 1, 2, 40))
	_, ok = w.VolumeSMA()
	assert.True(t, ok)
}
