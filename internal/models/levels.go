package models

import "time"

// LevelPair — дневные уровни по инструменту.
// resistance = max(max(open, close)), support = min(min(open, close))
// за window завершённых дневных свечей.
type LevelPair struct {
	Symbol     string
	Resistance float64
	Support    float64
	ComputedAt time.Time
}
