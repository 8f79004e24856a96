package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// donchianMid computes the midpoint of the rolling high-low window, the
// building block of every Ichimoku line.
func donchianMid(bars []series.Bar, length int) []float64 {
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)
	hh := highest(highs, length)
	ll := lowest(lows, length)
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(hh[i]) || math.IsNaN(ll[i]) {
			continue
		}
		out[i] = (hh[i] + ll[i]) / 2
	}
	return out
}

// Ichimoku computes the five Ichimoku Cloud lines. The Senkou spans are
// displaced forward and the Chikou span backward by the displacement
// parameter; the shifted values are written at their display index inside
// full-length slices, and each line's Offset documents the nominal shift.
func Ichimoku(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	conv := p.Int("conversionLength")
	base := p.Int("baseLength")
	spanB := p.Int("spanBLength")
	disp := p.Int("displacement")

	conversion := donchianMid(bars, conv)
	baseline := donchianMid(bars, base)

	spanARaw := nans(len(bars))
	for i := range bars {
		if math.IsNaN(conversion[i]) || math.IsNaN(baseline[i]) {
			continue
		}
		spanARaw[i] = (conversion[i] + baseline[i]) / 2
	}
	spanBRaw := donchianMid(bars, spanB)
	closes, _ := series.SourceClose.Values(bars)

	convLine := series.NewLine("conversion", "Conversion", bars, conversion)
	convLine.Color = "#2962FF"
	baseLine := series.NewLine("base", "Base", bars, baseline)
	baseLine.Color = "#B71C1C"
	lagLine := series.NewLine("lagging", "Lagging Span", bars, shiftBack(closes, disp))
	lagLine.Color = "#43A047"
	lagLine.Offset = -disp
	spanALine := series.NewLine("spanA", "Leading Span A", bars, shiftForward(spanARaw, disp))
	spanALine.Color = "#A5D6A7"
	spanALine.Offset = disp
	spanBLine := series.NewLine("spanB", "Leading Span B", bars, shiftForward(spanBRaw, disp))
	spanBLine.Color = "#EF9A9A"
	spanBLine.Offset = disp

	return &series.IndicatorResult{
		Kind:  "ichimoku",
		Lines: []series.Line{convLine, baseLine, lagLine, spanALine, spanBLine},
	}, nil
}

// Alligator computes the Williams Alligator: three smoothed midpoint
// averages displaced forward by their classic offsets.
func Alligator(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	hl2, _ := series.SourceHL2.Values(bars)

	jaw := shiftForward(rma(hl2, p.Int("jawLength")), p.Int("jawOffset"))
	teeth := shiftForward(rma(hl2, p.Int("teethLength")), p.Int("teethOffset"))
	lips := shiftForward(rma(hl2, p.Int("lipsLength")), p.Int("lipsOffset"))

	jawLine := series.NewLine("jaw", "Jaw", bars, jaw)
	jawLine.Color = "#2962FF"
	jawLine.Offset = p.Int("jawOffset")
	teethLine := series.NewLine("teeth", "Teeth", bars, teeth)
	teethLine.Color = "#E91E63"
	teethLine.Offset = p.Int("teethOffset")
	lipsLine := series.NewLine("lips", "Lips", bars, lips)
	lipsLine.Color = "#66BB6A"
	lipsLine.Offset = p.Int("lipsOffset")

	return &series.IndicatorResult{
		Kind:  "alligator",
		Lines: []series.Line{jawLine, teethLine, lipsLine},
	}, nil
}
