package models

import "time"

// Candle — закрытая свеча. Ключ уникальности: (Symbol, Interval, Start).
type Candle struct {
	Symbol   string
	Interval string
	Start    int64 // открытие свечи, ms epoch
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// CandleKey — ключ дедупликации в стейджинг-буфере.
type CandleKey struct {
	Symbol   string
	Interval string
	Start    int64
}

func (c Candle) Key() CandleKey {
	return CandleKey{Symbol: c.Symbol, Interval: c.Interval, Start: c.Start}
}

func (c Candle) StartTime() time.Time {
	return time.UnixMilli(c.Start)
}

// BodyHigh / BodyLow — границы тела свечи (без теней),
// по ним считаются дневные уровни.
func (c Candle) BodyHigh() float64 {
	if c.Open > c.Close {
		return c.Open
	}
	return c.Close
}

func (c Candle) BodyLow() float64 {
	if c.Open < c.Close {
		return c.Open
	}
	return c.Close
}
