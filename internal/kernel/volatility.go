package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// bandResult assembles the basis/upper/lower triplet shared by the band
// indicators; the fill between upper and lower comes from the manifest.
func bandResult(kind string, bars []series.Bar, basis, upper, lower []float64) *series.IndicatorResult {
	basisLine := series.NewLine("basis", "Basis", bars, basis)
	basisLine.Color = "#FF6D00"
	upperLine := series.NewLine("upper", "Upper", bars, upper)
	upperLine.Color = "#2962FF"
	lowerLine := series.NewLine("lower", "Lower", bars, lower)
	lowerLine.Color = "#2962FF"
	return &series.IndicatorResult{
		Kind:  kind,
		Lines: []series.Line{basisLine, upperLine, lowerLine},
	}
}

// bollinger computes the basis/upper/lower triplet used by the three
// Bollinger kinds.
func bollinger(src []float64, length int, mult float64) (basis, upper, lower []float64) {
	basis = sma(src, length)
	dev := stdev(src, length)
	upper = nans(len(src))
	lower = nans(len(src))
	for i := range src {
		if math.IsNaN(basis[i]) || math.IsNaN(dev[i]) {
			continue
		}
		upper[i] = basis[i] + mult*dev[i]
		lower[i] = basis[i] - mult*dev[i]
	}
	return basis, upper, lower
}

// BB computes Bollinger Bands.
func BB(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	basis, upper, lower := bollinger(src, p.Int("length"), p.Float("mult"))
	return bandResult("bb", bars, basis, upper, lower), nil
}

// BBW computes Bollinger BandWidth: band spread relative to the basis.
func BBW(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	basis, upper, lower := bollinger(src, p.Int("length"), p.Float("mult"))
	out := nans(len(src))
	for i := range src {
		if math.IsNaN(basis[i]) || basis[i] == 0 {
			continue
		}
		out[i] = 100 * (upper[i] - lower[i]) / basis[i]
	}
	line := series.NewLine("bbw", "BBW", bars, out)
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "bbw", Lines: []series.Line{line}}, nil
}

// BBTrend computes the Bollinger Bands Trend histogram from a short and a
// long band set.
func BBTrend(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	mult := p.Float("mult")
	sBasis, sUpper, sLower := bollinger(src, p.Int("shortLength"), mult)
	_, lUpper, lLower := bollinger(src, p.Int("longLength"), mult)
	out := nans(len(src))
	for i := range src {
		if math.IsNaN(sBasis[i]) || math.IsNaN(lUpper[i]) || sBasis[i] == 0 {
			continue
		}
		out[i] = (math.Abs(sLower[i]-lLower[i]) - math.Abs(sUpper[i]-lUpper[i])) / sBasis[i] * 100
	}
	line := series.NewLine("bbtrend", "BBTrend", bars, out)
	line.Color = "#26A69A"
	line.Render = series.RenderHistogram
	return &series.IndicatorResult{Kind: "bbtrend", Lines: []series.Line{line}}, nil
}

// Keltner computes Keltner Channels: an EMA basis with ATR envelopes.
func Keltner(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	mult := p.Float("mult")
	basis := ema(src, p.Int("length"))
	ranges := atr(bars, p.Int("atrLength"))
	upper := nans(len(bars))
	lower := nans(len(bars))
	for i := range bars {
		if math.IsNaN(basis[i]) || math.IsNaN(ranges[i]) {
			continue
		}
		upper[i] = basis[i] + mult*ranges[i]
		lower[i] = basis[i] - mult*ranges[i]
	}
	return bandResult("keltner", bars, basis, upper, lower), nil
}

// ATR computes the Average True Range with Wilder smoothing.
func ATR(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	line := series.NewLine("atr", "ATR", bars, atr(bars, p.Int("length")))
	line.Color = "#B71C1C"
	return &series.IndicatorResult{Kind: "atr", Lines: []series.Line{line}}, nil
}

// Donchian computes Donchian Channels from the rolling high-low extremes.
func Donchian(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)
	upper := highest(highs, length)
	lower := lowest(lows, length)
	basis := nans(len(bars))
	for i := range bars {
		if math.IsNaN(upper[i]) || math.IsNaN(lower[i]) {
			continue
		}
		basis[i] = (upper[i] + lower[i]) / 2
	}
	return bandResult("donchian", bars, basis, upper, lower), nil
}

// HV computes annualized historical volatility of log returns.
func HV(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	annual := p.Int("annualLength")
	closes, _ := series.SourceClose.Values(bars)
	rets := nans(len(bars))
	for i := 1; i < len(bars); i++ {
		if closes[i] <= 0 || closes[i-1] <= 0 {
			continue
		}
		rets[i] = math.Log(closes[i] / closes[i-1])
	}
	dev := stdev(rets, length)
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(dev[i]) {
			continue
		}
		out[i] = 100 * dev[i] * math.Sqrt(float64(annual))
	}
	line := series.NewLine("hv", "HV", bars, out)
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "hv", Lines: []series.Line{line}}, nil
}

// Chop computes the Choppiness Index, bounded 0..100, with the 61.8/38.2
// Fibonacci bands.
func Chop(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)
	trSum := rollingSum(trueRanges(bars), length)
	hh := highest(highs, length)
	ll := lowest(lows, length)
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(trSum[i]) || math.IsNaN(hh[i]) || math.IsNaN(ll[i]) {
			continue
		}
		span := hh[i] - ll[i]
		if span <= 0 || trSum[i] <= 0 {
			continue
		}
		out[i] = 100 * math.Log10(trSum[i]/span) / math.Log10(float64(length))
	}
	line := series.NewLine("chop", "CHOP", bars, out)
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "chop", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 61.8, "lower": 38.2})...)
	return res, nil
}

// Ulcer computes the Ulcer Index: root mean square of the percentage
// drawdown from the rolling highest close.
func Ulcer(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	closes, _ := series.SourceClose.Values(bars)
	hh := highest(closes, length)
	dd2 := nans(len(bars))
	for i := range bars {
		if math.IsNaN(hh[i]) || hh[i] == 0 {
			continue
		}
		d := 100 * (closes[i] - hh[i]) / hh[i]
		dd2[i] = d * d
	}
	mean := sma(dd2, length)
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(mean[i]) {
			continue
		}
		out[i] = math.Sqrt(mean[i])
	}
	line := series.NewLine("ulcer", "Ulcer", bars, out)
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "ulcer", Lines: []series.Line{line}}, nil
}
