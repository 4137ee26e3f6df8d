package runner

import (
	"sort"

	"breakout_bot/internal/models"
)

// Window — скользящее окно закрытых свечей одного инструмента.
// Отсортировано по Start, дубликатов нет, длина не больше 2*period:
// этого хватает для SMA и не даёт окну расти бесконечно.
type Window struct {
	period  int
	candles []models.Candle
}

func NewWindow(period int) *Window {
	return &Window{period: period}
}

// Merge вливает свечи в окно. Свеча с уже известным Start замещает
// старую (ws мог прислать уточнение), после слияния окно заново
// сортируется и обрезается слева до 2*period.
func (w *Window) Merge(candles ...models.Candle) {
	for _, c := range candles {
		replaced := false
		for i := range w.candles {
			if w.candles[i].Start == c.Start {
				w.candles[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			w.candles = append(w.candles, c)
		}
	}

	sort.Slice(w.candles, func(i, j int) bool {
		return w.candles[i].Start < w.candles[j].Start
	})

	if max := 2 * w.period; len(w.candles) > max {
		w.candles = w.candles[len(w.candles)-max:]
	}
}

func (w *Window) Len() int { return len(w.candles) }

// Resize применяет новый период SMA к живому окну: при уменьшении
// лишняя история обрезается слева, при увеличении окно доберёт
// свечи само.
func (w *Window) Resize(period int) {
	if period == w.period || period <= 0 {
		return
	}
	w.period = period
	if max := 2 * w.period; len(w.candles) > max {
		w.candles = w.candles[len(w.candles)-max:]
	}
}

// Last — самая свежая свеча окна.
func (w *Window) Last() (models.Candle, bool) {
	if len(w.candles) == 0 {
		return models.Candle{}, false
	}
	return w.candles[len(w.candles)-1], true
}

// VolumeSMA — среднее объёма за period свечей, ПРЕДШЕСТВУЮЩИХ последней.
// Объём оцениваемой свечи в среднее не входит, иначе всплеск размывал бы
// собственный порог. Нужно минимум period+1 свечей, иначе ok=false.
func (w *Window) VolumeSMA() (sma float64, ok bool) {
	if len(w.candles) < w.period+1 {
		return 0, false
	}

	// period свечей перед последней
	tail := w.candles[len(w.candles)-1-w.period : len(w.candles)-1]
	var sum float64
	for _, c := range tail {
		sum += c.Volume
	}
	return sum / float64(w.period), true
}
