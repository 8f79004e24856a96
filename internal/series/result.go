package series

import "time"

// FillDescriptor describes a shaded band bounded by two companion lines of
// the same result, referenced by id. Renderers paint the fill; they never
// derive it.
type FillDescriptor struct {
	Enabled     bool    `json:"enabled"`
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	UpperLineID string  `json:"upperLineId"`
	LowerLineID string  `json:"lowerLineId"`
}

// MarkerShape is the glyph of a chart marker.
type MarkerShape string

const (
	MarkerArrowUp   MarkerShape = "arrow_up"
	MarkerArrowDown MarkerShape = "arrow_down"
	MarkerCircle    MarkerShape = "circle"
)

// Marker is a point annotation emitted by pivot-scanning kernels
// (fractals, divergence detectors).
type Marker struct {
	Time  time.Time   `json:"time"`
	Price float64     `json:"price"`
	Shape MarkerShape `json:"shape"`
	Color string      `json:"color"`
	Label string      `json:"label,omitempty"`
}

// IndicatorResult is the atomic output of one kernel invocation. It is
// replaced wholesale on recompute, never partially mutated.
type IndicatorResult struct {
	Kind    string           `json:"kind"`
	Lines   []Line           `json:"lines"`
	Fills   []FillDescriptor `json:"fills,omitempty"`
	Markers []Marker         `json:"markers,omitempty"`
}

// Line returns the line with the given id, or nil.
func (r *IndicatorResult) Line(id string) *Line {
	for i := range r.Lines {
		if r.Lines[i].ID == id {
			return &r.Lines[i]
		}
	}
	return nil
}

// Whitespace builds a result whose every line is full-length whitespace.
// Used when there are fewer bars than an indicator's minimum window and for
// instances in an error state: not an error, just nothing to plot.
func Whitespace(kind string, bars []Bar, lineIDs ...string) *IndicatorResult {
	res := &IndicatorResult{Kind: kind}
	for _, id := range lineIDs {
		res.Lines = append(res.Lines, NewLine(id, id, bars, nil))
	}
	return res
}
