package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// VWAP computes the volume weighted average price with deviation bands.
// The accumulation anchor is either the whole bar history or each calendar
// session (UTC day roll). Zero cumulative volume degrades pointwise.
func VWAP(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	anchor := p.String("anchor")
	mult := p.Float("bandsMult")
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}

	n := len(bars)
	vwap := nans(n)
	upper := nans(n)
	lower := nans(n)

	var sumPV, sumV, sumPV2 float64
	for i := 0; i < n; i++ {
		if anchor == "session" && i > 0 {
			prev, cur := bars[i-1].Time.UTC(), bars[i].Time.UTC()
			if prev.YearDay() != cur.YearDay() || prev.Year() != cur.Year() {
				sumPV, sumV, sumPV2 = 0, 0, 0
			}
		}
		v := bars[i].Volume
		sumPV += src[i] * v
		sumV += v
		sumPV2 += src[i] * src[i] * v
		if sumV == 0 {
			continue
		}
		mean := sumPV / sumV
		vwap[i] = mean
		variance := sumPV2/sumV - mean*mean
		if variance < 0 {
			variance = 0
		}
		dev := math.Sqrt(variance)
		upper[i] = mean + mult*dev
		lower[i] = mean - mult*dev
	}

	vwapLine := series.NewLine("vwap", "VWAP", bars, vwap)
	vwapLine.Color = "#2962FF"
	upperLine := series.NewLine("upper", "Upper Band", bars, upper)
	upperLine.Color = "#4CAF50"
	lowerLine := series.NewLine("lower", "Lower Band", bars, lower)
	lowerLine.Color = "#4CAF50"
	return &series.IndicatorResult{
		Kind:  "vwap",
		Lines: []series.Line{vwapLine, upperLine, lowerLine},
	}, nil
}

// OBV computes cumulative On-Balance Volume.
func OBV(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	n := len(bars)
	out := nans(n)
	if n > 0 {
		out[0] = 0
		for i := 1; i < n; i++ {
			switch {
			case bars[i].Close > bars[i-1].Close:
				out[i] = out[i-1] + bars[i].Volume
			case bars[i].Close < bars[i-1].Close:
				out[i] = out[i-1] - bars[i].Volume
			default:
				out[i] = out[i-1]
			}
		}
	}
	line := series.NewLine("obv", "OBV", bars, out)
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "obv", Lines: []series.Line{line}}, nil
}

// MFI computes the Money Flow Index over the typical price, bounded
// 0..100, with 80/50/20 bands.
func MFI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	tp, _ := series.SourceHLC3.Values(bars)

	n := len(bars)
	pos := nans(n)
	neg := nans(n)
	for i := 1; i < n; i++ {
		flow := tp[i] * bars[i].Volume
		pos[i], neg[i] = 0, 0
		if tp[i] > tp[i-1] {
			pos[i] = flow
		} else if tp[i] < tp[i-1] {
			neg[i] = flow
		}
	}
	sumPos := rollingSum(pos, length)
	sumNeg := rollingSum(neg, length)
	out := nans(n)
	for i := range bars {
		if math.IsNaN(sumPos[i]) || math.IsNaN(sumNeg[i]) {
			continue
		}
		switch {
		case sumNeg[i] == 0 && sumPos[i] == 0:
			// no money flow either way
		case sumNeg[i] == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+sumPos[i]/sumNeg[i])
		}
	}
	line := series.NewLine("mfi", "MFI", bars, out)
	line.Color = "#7E57C2"
	res := &series.IndicatorResult{Kind: "mfi", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 80, "middle": 50, "lower": 20})...)
	return res, nil
}

// CMF computes Chaikin Money Flow, bounded -1..1. Bars with zero range
// contribute zero money flow (no close location within the bar).
func CMF(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	n := len(bars)
	mfv := make([]float64, n)
	vol := make([]float64, n)
	for i, b := range bars {
		vol[i] = b.Volume
		if b.High == b.Low {
			mfv[i] = 0
			continue
		}
		mult := ((b.Close - b.Low) - (b.High - b.Close)) / (b.High - b.Low)
		mfv[i] = mult * b.Volume
	}
	sumMFV := rollingSum(mfv, length)
	sumVol := rollingSum(vol, length)
	out := nans(n)
	for i := range bars {
		if math.IsNaN(sumMFV[i]) || math.IsNaN(sumVol[i]) || sumVol[i] == 0 {
			continue
		}
		out[i] = sumMFV[i] / sumVol[i]
	}
	line := series.NewLine("cmf", "CMF", bars, out)
	line.Color = "#26A69A"
	res := &series.IndicatorResult{Kind: "cmf", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}

// volumeIndex computes the shared PVI/NVI recursion: the index compounds
// price change only on bars selected by the volume comparison.
func volumeIndex(bars []series.Bar, positive bool) []float64 {
	n := len(bars)
	out := nans(n)
	if n == 0 {
		return out
	}
	out[0] = 1000
	for i := 1; i < n; i++ {
		out[i] = out[i-1]
		selected := bars[i].Volume > bars[i-1].Volume
		if !positive {
			selected = bars[i].Volume < bars[i-1].Volume
		}
		if selected && bars[i-1].Close != 0 {
			out[i] = out[i-1] * (1 + (bars[i].Close-bars[i-1].Close)/bars[i-1].Close)
		}
	}
	return out
}

// PVI computes the Positive Volume Index with its long EMA signal.
func PVI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	idx := volumeIndex(bars, true)
	line := series.NewLine("pvi", "PVI", bars, idx)
	line.Color = "#2962FF"
	sig := series.NewLine("signal", "Signal", bars, ema(idx, p.Int("signalLength")))
	sig.Color = "#FF6D00"
	return &series.IndicatorResult{Kind: "pvi", Lines: []series.Line{line, sig}}, nil
}

// NVI computes the Negative Volume Index with its long EMA signal.
func NVI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	idx := volumeIndex(bars, false)
	line := series.NewLine("nvi", "NVI", bars, idx)
	line.Color = "#2962FF"
	sig := series.NewLine("signal", "Signal", bars, ema(idx, p.Int("signalLength")))
	sig.Color = "#FF6D00"
	return &series.IndicatorResult{Kind: "nvi", Lines: []series.Line{line, sig}}, nil
}

// RVOL computes relative volume: each bar's volume against its rolling
// simple average.
func RVOL(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	n := len(bars)
	vol := make([]float64, n)
	for i, b := range bars {
		vol[i] = b.Volume
	}
	avg := sma(vol, length)
	out := nans(n)
	for i := range bars {
		if math.IsNaN(avg[i]) || avg[i] == 0 {
			continue
		}
		out[i] = vol[i] / avg[i]
	}
	line := series.NewLine("rvol", "RVOL", bars, out)
	line.Color = "#26A69A"
	line.Render = series.RenderHistogram
	return &series.IndicatorResult{Kind: "rvol", Lines: []series.Line{line}}, nil
}
