package engine

import (
	"github.com/arijanluiken/candleforge/internal/kernel"
	"github.com/arijanluiken/candleforge/internal/series"
)

// StyleOverride is a presentation-only tweak to one line of an instance.
// Applying one never triggers a recompute; it is merged over the kernel's
// default styling when the instance is rendered.
type StyleOverride struct {
	Color     string             `json:"color,omitempty"`
	LineWidth int                `json:"lineWidth,omitempty"`
	LineStyle series.LineStyle   `json:"lineStyle,omitempty"`
	Render    series.RenderStyle `json:"render,omitempty"`
}

// Instance is one indicator attached to the chart: a kind, its normalized
// parameters, its pane slot and the latest computed result.
type Instance struct {
	ID         string                   `json:"id"`
	Kind       string                   `json:"kind"`
	Params     kernel.Params            `json:"params"`
	PaneID     int                      `json:"paneId"`
	Hidden     bool                     `json:"hidden"`
	Styles     map[string]StyleOverride `json:"styles,omitempty"`
	Recomputes int                      `json:"recomputes"`

	result *series.IndicatorResult
	err    error
}

// Err returns the instance's degraded-state error, if any.
func (in *Instance) Err() error { return in.err }

// Result returns the latest computed result with style overrides merged
// in. The stored result is never mutated; overridden lines are copies.
func (in *Instance) Result() *series.IndicatorResult {
	if in.result == nil {
		return nil
	}
	if len(in.Styles) == 0 {
		return in.result
	}
	res := &series.IndicatorResult{
		Kind:    in.result.Kind,
		Fills:   in.result.Fills,
		Markers: in.result.Markers,
		Lines:   make([]series.Line, len(in.result.Lines)),
	}
	copy(res.Lines, in.result.Lines)
	for i := range res.Lines {
		ov, ok := in.Styles[res.Lines[i].ID]
		if !ok {
			continue
		}
		if ov.Color != "" {
			res.Lines[i].Color = ov.Color
		}
		if ov.LineWidth > 0 {
			res.Lines[i].LineWidth = ov.LineWidth
		}
		if ov.LineStyle != "" {
			res.Lines[i].LineStyle = ov.LineStyle
		}
		if ov.Render != "" {
			res.Lines[i].Render = ov.Render
		}
	}
	return res
}
