package helper

import (
	"time"

	"github.com/shopspring/decimal"
)

// FloorToStep округляет value ВНИЗ до кратного step. Вверх не округляем
// никогда: превысить точность биржи или доступный баланс нельзя.
// Decimal вместо float-арифметики, чтобы 0.00016 при шаге 0.001 давал
// ровно 0, а не мусор в последнем знаке.
func FloorToStep(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	v := decimal.NewFromFloat(value)
	s := decimal.NewFromFloat(step)
	steps := v.Div(s).Floor()
	out, _ := steps.Mul(s).Float64()
	return out
}

// IntervalDuration — длительность свечи по интервалу Bybit
// ("1","3",...,"720" в минутах, "D"/"W"/"M").
func IntervalDuration(interval string) time.Duration {
	switch interval {
	case "1":
		return time.Minute
	case "3":
		return 3 * time.Minute
	case "5":
		return 5 * time.Minute
	case "15":
		return 15 * time.Minute
	case "30":
		return 30 * time.Minute
	case "60":
		return time.Hour
	case "120":
		return 2 * time.Hour
	case "240":
		return 4 * time.Hour
	case "360":
		return 6 * time.Hour
	case "720":
		return 12 * time.Hour
	case "D":
		return 24 * time.Hour
	case "W":
		return 7 * 24 * time.Hour
	case "M":
		return 30 * 24 * time.Hour // календарный месяц, приближение
	default:
		return 0
	}
}

// StartOfUTCDay — полночь UTC для t.
func StartOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
