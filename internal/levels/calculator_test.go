package levels

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"breakout_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu       sync.Mutex
	candles  map[string][]models.Candle
	failures map[string]int // сколько первых вызовов по символу падает
	calls    map[string]int
}

func (f *fakeFetcher) GetKlines(_ context.Context, symbol, _ string, _ int) ([]models.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol]++
	if f.failures[symbol] >= f.calls[symbol] {
		return nil, errors.New("rate limited")
	}
	return f.candles[symbol], nil
}

func daily(start int64, open, close float64) models.Candle {
	return models.Candle{Symbol: "BTCUSDT", Interval: "D", Start: start, Open: open, Close: close, Volume: 1}
}

func TestComputeLevelsFromCandleBodies(t *testing.T) {
	fetcher := &fakeFetcher{
		candles: map[string][]models.Candle{
			"BTCUSDT": {
				daily(100, 10, 12), // тело 10..12
				daily(200, 11, 9),  // тело 9..11
				daily(300, 10, 11), // тело 10..11
				daily(400, 50, 1),  // текущий день, отбрасывается
			},
		},
	}
	c := New(fetcher, time.Millisecond)

	got, failed := c.Compute(context.Background(), []string{"BTCUSDT"}, 3)
	require.Empty(t, failed)
	require.Contains(t, got, "BTCUSDT")
	assert.Equal(t, 12.0, got["BTCUSDT"].Resistance)
	assert.Equal(t, 9.0, got["BTCUSDT"].Support)
}

func TestComputeRetriesTransientFailures(t *testing.T) {
	candles := []models.Candle{daily(100, 10, 12), daily(200, 11, 9), daily(300, 50, 1)}
	fetcher := &fakeFetcher{
		candles: map[string][]models.Candle{
			"BTCUSDT": candles, "ETHUSDT": candles, "SOLUSDT": candles,
		},
		failures: map[string]int{
			"ETHUSDT": 1, // падает в фазе 1, проходит во 2-й
			"SOLUSDT": 2, // проходит только в 3-й
		},
	}
	c := New(fetcher, time.Millisecond)

	got, failed := c.Compute(context.Background(), []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, 2)
	assert.Empty(t, failed)
	assert.Len(t, got, 3)
}

func TestComputeReportsPermanentFailures(t *testing.T) {
	candles := []models.Candle{daily(100, 10, 12), daily(200, 11, 9), daily(300, 50, 1)}
	fetcher := &fakeFetcher{
		candles: map[string][]models.Candle{
			"BTCUSDT": candles, "DEADUSDT": candles,
		},
		failures: map[string]int{"DEADUSDT": 100},
	}
	c := New(fetcher, time.Millisecond)

	got, failed := c.Compute(context.Background(), []string{"BTCUSDT", "DEADUSDT"}, 2)
	require.Contains(t, got, "BTCUSDT")
	assert.NotContains(t, got, "DEADUSDT")
	assert.Equal(t, []string{"DEADUSDT"}, failed)
	// 1 в параллельной фазе + по одному в двух последовательных
	assert.Equal(t, 3, fetcher.calls["DEADUSDT"])
}

func TestComputeNotEnoughHistoryFails(t *testing.T) {
	fetcher := &fakeFetcher{
		candles: map[string][]models.Candle{
			"NEWUSDT": {daily(100, 10, 12)}, // только текущий день
		},
	}
	c := New(fetcher, time.Millisecond)

	got, failed := c.Compute(context.Background(), []string{"NEWUSDT"}, 3)
	assert.Empty(t, got)
	assert.Equal(t, []string{"NEWUSDT"}, failed)
}
