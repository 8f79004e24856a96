package series

import (
	"math"
	"time"
)

// Point is one plotted datum of a line. A point either carries a finite
// value or is whitespace: a timestamp with no plot, which is semantically
// distinct from a zero value. Whitespace is how warmup bars and numeric
// instability (zero denominators, overflow) surface to renderers.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value,omitempty"`
	Valid bool      `json:"valid"`
}

// ValueAt builds a value point. The caller is expected to pass a finite
// value; NewLine is the gate that converts non-finite raws to whitespace.
func ValueAt(t time.Time, v float64) Point {
	return Point{Time: t, Value: v, Valid: true}
}

// WhitespaceAt builds a whitespace point.
func WhitespaceAt(t time.Time) Point {
	return Point{Time: t}
}

// finite reports whether v can be plotted.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
