package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// pivotHighs returns the indexes whose value is strictly greater than the
// left bars before and at least the right bars after it. The scan is a
// single bounded pass over the series.
func pivotHighs(src []float64, left, right int) []int {
	var out []int
	for i := left; i < len(src)-right; i++ {
		if math.IsNaN(src[i]) {
			continue
		}
		ok := true
		for j := i - left; j <= i+right && ok; j++ {
			if j == i || math.IsNaN(src[j]) {
				continue
			}
			if src[j] >= src[i] {
				ok = false
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// pivotLows mirrors pivotHighs for local minima.
func pivotLows(src []float64, left, right int) []int {
	var out []int
	for i := left; i < len(src)-right; i++ {
		if math.IsNaN(src[i]) {
			continue
		}
		ok := true
		for j := i - left; j <= i+right && ok; j++ {
			if j == i || math.IsNaN(src[j]) {
				continue
			}
			if src[j] <= src[i] {
				ok = false
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Fractals emits Williams fractal markers: a bar whose high (low) exceeds
// the n bars on each side. The trailing n bars can never confirm.
func Fractals(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	n := p.Int("periods")
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)

	res := &series.IndicatorResult{Kind: "fractals"}
	res.Lines = append(res.Lines, series.NewLine("anchor", "Fractals", bars, nil))
	for _, i := range pivotHighs(highs, n, n) {
		res.Markers = append(res.Markers, series.Marker{
			Time: bars[i].Time, Price: bars[i].High,
			Shape: series.MarkerArrowUp, Color: "#26A69A", Label: "Up Fractal",
		})
	}
	for _, i := range pivotLows(lows, n, n) {
		res.Markers = append(res.Markers, series.Marker{
			Time: bars[i].Time, Price: bars[i].Low,
			Shape: series.MarkerArrowDown, Color: "#EF5350", Label: "Down Fractal",
		})
	}
	return res, nil
}

// ZigZag connects alternating swing pivots whose retracement exceeds the
// deviation percentage. Only pivot bars carry values; the renderer bridges
// the whitespace between them (ConnectGaps). The final uncommitted extreme
// is plotted so the polyline reaches the latest swing.
func ZigZag(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	devPct := p.Float("deviation")
	depth := p.Int("depth")

	n := len(bars)
	out := nans(n)
	if n > 0 {
		const dirUp, dirDown, dirNone = 1, -1, 0
		dir := dirNone
		extremeIdx := 0
		extremeVal := bars[0].Close
		lastPivotIdx := 0

		commit := func(idx int, val float64) {
			out[idx] = val
			lastPivotIdx = idx
		}

		for i := 1; i < n; i++ {
			c := bars[i].Close
			switch dir {
			case dirNone:
				start := bars[0].Close
				if start != 0 && math.Abs(c-start) >= math.Abs(start)*devPct/100 {
					commit(0, start)
					if c > start {
						dir = dirUp
					} else {
						dir = dirDown
					}
					extremeIdx, extremeVal = i, c
				}
			case dirUp:
				if c > extremeVal {
					extremeIdx, extremeVal = i, c
				} else if extremeVal != 0 &&
					extremeVal-c >= math.Abs(extremeVal)*devPct/100 &&
					extremeIdx-lastPivotIdx >= depth {
					commit(extremeIdx, extremeVal)
					dir = dirDown
					extremeIdx, extremeVal = i, c
				}
			case dirDown:
				if c < extremeVal {
					extremeIdx, extremeVal = i, c
				} else if extremeVal != 0 &&
					c-extremeVal >= math.Abs(extremeVal)*devPct/100 &&
					extremeIdx-lastPivotIdx >= depth {
					commit(extremeIdx, extremeVal)
					dir = dirUp
					extremeIdx, extremeVal = i, c
				}
			}
		}
		// provisional last swing
		out[extremeIdx] = extremeVal
	}

	line := series.NewLine("zigzag", "ZigZag", bars, out)
	line.Color = "#2962FF"
	line.ConnectGaps = true
	return &series.IndicatorResult{Kind: "zigzag", Lines: []series.Line{line}}, nil
}

// RSIDivergence plots the RSI line and flags regular divergences between
// price and RSI at confirmed RSI pivots within the configured bar range.
func RSIDivergence(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("rsiLength")
	left := p.Int("pivotLookbackLeft")
	right := p.Int("pivotLookbackRight")
	rangeLower := p.Int("rangeLower")
	rangeUpper := p.Int("rangeUpper")

	closes, _ := series.SourceClose.Values(bars)
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)
	rsi := rsiValues(closes, length)

	line := series.NewLine("rsi", "RSI", bars, rsi)
	line.Color = "#7E57C2"
	res := &series.IndicatorResult{Kind: "rsi-divergence", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 70, "middle": 50, "lower": 30})...)

	lowPivots := pivotLows(rsi, left, right)
	for k := 1; k < len(lowPivots); k++ {
		p1, p2 := lowPivots[k-1], lowPivots[k]
		gap := p2 - p1
		if gap < rangeLower || gap > rangeUpper {
			continue
		}
		// bullish: price lower low, oscillator higher low
		if lows[p2] < lows[p1] && rsi[p2] > rsi[p1] {
			res.Markers = append(res.Markers, series.Marker{
				Time: bars[p2].Time, Price: rsi[p2],
				Shape: series.MarkerArrowUp, Color: "#26A69A", Label: "Bull",
			})
		}
	}
	highPivots := pivotHighs(rsi, left, right)
	for k := 1; k < len(highPivots); k++ {
		p1, p2 := highPivots[k-1], highPivots[k]
		gap := p2 - p1
		if gap < rangeLower || gap > rangeUpper {
			continue
		}
		// bearish: price higher high, oscillator lower high
		if highs[p2] > highs[p1] && rsi[p2] < rsi[p1] {
			res.Markers = append(res.Markers, series.Marker{
				Time: bars[p2].Time, Price: rsi[p2],
				Shape: series.MarkerArrowDown, Color: "#EF5350", Label: "Bear",
			})
		}
	}
	return res, nil
}

// KnoxvilleDivergence flags momentum divergences filtered by RSI
// overbought/oversold, marked on the price pane. The backward scan per
// pivot is capped by barsBack, keeping the pass bounded.
func KnoxvilleDivergence(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	momLength := p.Int("momentumLength")
	rsiLength := p.Int("rsiLength")
	barsBack := p.Int("barsBack")
	overbought := p.Float("overbought")
	oversold := p.Float("oversold")

	closes, _ := series.SourceClose.Values(bars)
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)
	mom := change(closes, momLength)
	rsi := rsiValues(closes, rsiLength)

	res := &series.IndicatorResult{Kind: "knoxville-divergence"}
	res.Lines = append(res.Lines, series.NewLine("anchor", "Knoxville", bars, nil))

	for _, i := range pivotHighs(highs, 2, 2) {
		if math.IsNaN(rsi[i]) || rsi[i] < overbought || math.IsNaN(mom[i]) {
			continue
		}
		from := i - barsBack
		if from < 0 {
			from = 0
		}
		for j := from; j < i; j++ {
			if math.IsNaN(mom[j]) {
				continue
			}
			if closes[j] < closes[i] && mom[j] > mom[i] {
				res.Markers = append(res.Markers, series.Marker{
					Time: bars[i].Time, Price: bars[i].High,
					Shape: series.MarkerArrowDown, Color: "#EF5350", Label: "Knoxville Bear",
				})
				break
			}
		}
	}
	for _, i := range pivotLows(lows, 2, 2) {
		if math.IsNaN(rsi[i]) || rsi[i] > oversold || math.IsNaN(mom[i]) {
			continue
		}
		from := i - barsBack
		if from < 0 {
			from = 0
		}
		for j := from; j < i; j++ {
			if math.IsNaN(mom[j]) {
				continue
			}
			if closes[j] > closes[i] && mom[j] < mom[i] {
				res.Markers = append(res.Markers, series.Marker{
					Time: bars[i].Time, Price: bars[i].Low,
					Shape: series.MarkerArrowUp, Color: "#26A69A", Label: "Knoxville Bull",
				})
				break
			}
		}
	}
	return res, nil
}
