package series

import "time"

// Bar represents a single OHLCV observation at a discrete time.
// Bars are produced by an external data layer, ordered ascending by time
// with unique timestamps, and are never mutated by the engine.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Times extracts the timestamps of a bar slice.
func Times(bars []Bar) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}
	return out
}
