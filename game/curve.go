package game

import (
	"math"
	"time"
)

// DefaultGrowthRate doubles the multiplier roughly every 7 seconds.
const DefaultGrowthRate = 0.1

// Curve maps elapsed flight time to the displayed multiplier. Exponential in
// time, so the time to reach a crash point m is ln(m)/Rate and even very
// large rounds stay bounded in duration.
type Curve struct {
	Rate float64 // growth exponent per second
}

func NewCurve(rate float64) Curve {
	if rate <= 0 {
		rate = DefaultGrowthRate
	}
	return Curve{Rate: rate}
}

// At returns the multiplier after elapsed flight time, floored to 2 decimals.
// At(0) = 1.00 and the result never decreases as elapsed grows.
func (c Curve) At(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 1.0
	}
	m := math.Exp(c.Rate * elapsed.Seconds())
	return math.Floor(m*100) / 100
}

// TimeToReach returns the flight time at which At first reports a multiplier
// of at least m.
func (c Curve) TimeToReach(m float64) time.Duration {
	if m <= 1.0 {
		return 0
	}
	secs := math.Log(m) / c.Rate
	return time.Duration(secs * float64(time.Second))
}
