package series

import "math"

// LineStyle is the dash pattern of a plotted line.
type LineStyle string

const (
	StyleSolid  LineStyle = "solid"
	StyleDashed LineStyle = "dashed"
	StyleDotted LineStyle = "dotted"
)

// RenderStyle is how a line is painted.
type RenderStyle string

const (
	RenderLine      RenderStyle = "line"
	RenderHistogram RenderStyle = "histogram"
)

// Line is a single labeled output series of an indicator.
type Line struct {
	ID               string      `json:"id"`
	Label            string      `json:"label"`
	Color            string      `json:"color"`
	LineWidth        int         `json:"lineWidth"`
	LineStyle        LineStyle   `json:"lineStyle"`
	Render           RenderStyle `json:"renderStyle"`
	LastValueVisible bool        `json:"lastValueVisible"`
	// Offset is the nominal bar shift of a displaced line (Ichimoku spans,
	// Alligator). Values are already written at their display index; Offset
	// only documents the shift for collaborators.
	Offset int `json:"offset,omitempty"`
	// ConnectGaps asks the renderer to bridge whitespace runs with straight
	// segments (ZigZag pivot polylines).
	ConnectGaps bool    `json:"connectGaps,omitempty"`
	Points      []Point `json:"points"`
}

// NewLine builds a Line from a raw numeric sequence aligned with bars.
// This is the single gate every kernel result passes through: any raw value
// that is NaN or infinite becomes a whitespace point, so no non-finite
// number ever reaches a renderer. A nil or short raw slice yields
// whitespace for the uncovered tail, preserving full-length alignment.
func NewLine(id, label string, bars []Bar, raw []float64) Line {
	points := make([]Point, len(bars))
	for i, b := range bars {
		if i < len(raw) && finite(raw[i]) {
			points[i] = ValueAt(b.Time, raw[i])
		} else {
			points[i] = WhitespaceAt(b.Time)
		}
	}
	return Line{
		ID:        id,
		Label:     label,
		LineWidth: 1,
		LineStyle: StyleSolid,
		Render:    RenderLine,
		Points:    points,
	}
}

// ConstLine builds a full-length constant line at level, whitespace for the
// first warmup bars. Used for static oscillator bands (70/30, ±100, zero).
func ConstLine(id, label string, bars []Bar, level float64, warmup int) Line {
	raw := make([]float64, len(bars))
	for i := range raw {
		if i < warmup {
			raw[i] = math.NaN()
		} else {
			raw[i] = level
		}
	}
	l := NewLine(id, label, bars, raw)
	l.LineStyle = StyleDashed
	return l
}

// LastValue returns the newest defined value of the line.
func (l Line) LastValue() (float64, bool) {
	for i := len(l.Points) - 1; i >= 0; i-- {
		if l.Points[i].Valid {
			return l.Points[i].Value, true
		}
	}
	return 0, false
}

// DefinedFrom returns the index of the first value point, or -1 when the
// line is all whitespace.
func (l Line) DefinedFrom() int {
	for i, p := range l.Points {
		if p.Valid {
			return i
		}
	}
	return -1
}
