package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFloorToStep(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		step  float64
		want  float64
	}{
		{"ровно на шаге", 5.0, 0.001, 5.0},
		{"обрезка вниз", 5.0004, 0.001, 5.0},
		{"меньше шага", 0.0004, 0.001, 0.0},
		{"крупный шаг", 123.7, 0.5, 123.5},
		{"float-мусор не просачивается", 0.00016, 0.001, 0.0},
		{"нулевой шаг возвращает как есть", 1.234, 0, 1.234},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, FloorToStep(tc.value, tc.step), 1e-12)
		})
	}
}

func TestFloorToStepIdempotent(t *testing.T) {
	v := FloorToStep(123.456789, 0.01)
	assert.Equal(t, v, FloorToStep(v, 0.01))
}

func TestIntervalDuration(t *testing.T) {
	assert.Equal(t, time.Minute, IntervalDuration("1"))
	assert.Equal(t, 4*time.Hour, IntervalDuration("240"))
	assert.Equal(t, 24*time.Hour, IntervalDuration("D"))
	assert.Equal(t, time.Duration(0), IntervalDuration("bogus"))
}

func TestStartOfUTCDay(t *testing.T) {
	in := time.Date(2025, 3, 7, 23, 59, 59, 0, time.FixedZone("MSK", 3*3600))
	got := StartOfUTCDay(in)
	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), got)
}
