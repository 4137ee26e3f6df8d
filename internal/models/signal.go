package models

import "time"

// Side как в раннере: "BUY"/"SELL" или пустая строка.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Signal — пробой уровня на повышенном объеме.
// Несёт весь контекст решения, чтобы его можно было восстановить по логу.
type Signal struct {
	Symbol     string
	Interval   string
	Side       Side
	Price      float64 // close пробившей свечи
	Open       float64
	Volume     float64
	VolumeSMA  float64
	Level      float64 // пробитый уровень (resistance или support)
	Resistance float64
	Support    float64
	CreatedAt  time.Time
}
