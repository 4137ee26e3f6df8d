package levels

import (
	"context"
	"fmt"
	"sync"
	"time"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/logger"
)

// dailyInterval — дневные свечи Bybit.
const dailyInterval = "D"

// KlineFetcher — исторические свечи, oldest first, последний элемент
// может быть незакрытым периодом.
type KlineFetcher interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
}

// Calculator считает дневные resistance/support по инструментам.
// Временные сбои по отдельным инструментам не валят расчёт целиком:
// три фазы — параллельная, затем после паузы две последовательных
// (последовательные, чтобы не повторить тот же burst и не упереться
// в rate limit ещё раз).
type Calculator struct {
	fetcher  KlineFetcher
	cooldown time.Duration
}

func New(fetcher KlineFetcher, cooldown time.Duration) *Calculator {
	return &Calculator{fetcher: fetcher, cooldown: cooldown}
}

// Compute возвращает уровни по всем инструментам, которые удалось
// посчитать, и список окончательно не посчитанных (их вызывающий
// оставляет на прошлых уровнях). Каждый провал логируется один раз.
func (c *Calculator) Compute(ctx context.Context, symbols []string, window int) (map[string]models.LevelPair, []string) {
	result := make(map[string]models.LevelPair, len(symbols))

	// фаза 1: все параллельно
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed []string
	)
	for _, symbol := range symbols {
		symbol := symbol
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, err := c.computeOne(ctx, symbol, window)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, symbol)
				return
			}
			result[symbol] = pair
		}()
	}
	wg.Wait()

	// фазы 2 и 3: после паузы, последовательно
	for phase := 2; phase <= 3 && len(failed) > 0; phase++ {
		if !sleepCtx(ctx, c.cooldown) {
			break
		}

		var still []string
		for _, symbol := range failed {
			pair, err := c.computeOne(ctx, symbol, window)
			if err != nil {
				still = append(still, symbol)
				continue
			}
			result[symbol] = pair
		}
		failed = still
	}

	for _, symbol := range failed {
		logger.Error("[LEVELS] %s: не посчитан после трёх фаз, остаёмся на прошлых уровнях", symbol)
	}

	return result, failed
}

// computeOne: window+1 дневных свечей, текущий незавершённый день
// отбрасывается, уровни по телам свечей.
func (c *Calculator) computeOne(ctx context.Context, symbol string, window int) (models.LevelPair, error) {
	candles, err := c.fetcher.GetKlines(ctx, symbol, dailyInterval, window+1)
	if err != nil {
		return models.LevelPair{}, fmt.Errorf("levels %s: %w", symbol, err)
	}
	if len(candles) < 2 {
		return models.LevelPair{}, fmt.Errorf("levels %s: not enough daily candles (%d)", symbol, len(candles))
	}

	// последний элемент — текущий день, он ещё не закрыт
	completed := candles[:len(candles)-1]

	pair := models.LevelPair{
		Symbol:     symbol,
		Resistance: completed[0].BodyHigh(),
		Support:    completed[0].BodyLow(),
		ComputedAt: time.Now().UTC(),
	}
	for _, candle := range completed[1:] {
		if bh := candle.BodyHigh(); bh > pair.Resistance {
			pair.Resistance = bh
		}
		if bl := candle.BodyLow(); bl < pair.Support {
			pair.Support = bl
		}
	}
	return pair, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
