package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// MACD computes the MACD line, signal line and histogram.
func MACD(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	fast := ema(src, p.Int("fastLength"))
	slow := ema(src, p.Int("slowLength"))
	macd := nans(len(src))
	for i := range src {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			continue
		}
		macd[i] = fast[i] - slow[i]
	}
	signal := ema(macd, p.Int("signalLength"))
	hist := nans(len(src))
	for i := range src {
		if math.IsNaN(macd[i]) || math.IsNaN(signal[i]) {
			continue
		}
		hist[i] = macd[i] - signal[i]
	}

	histLine := series.NewLine("histogram", "Histogram", bars, hist)
	histLine.Color = "#26A69A"
	histLine.Render = series.RenderHistogram
	macdLine := series.NewLine("macd", "MACD", bars, macd)
	macdLine.Color = "#2962FF"
	sigLine := series.NewLine("signal", "Signal", bars, signal)
	sigLine.Color = "#FF6D00"

	res := &series.IndicatorResult{Kind: "macd", Lines: []series.Line{histLine, macdLine, sigLine}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}

// ADX computes the Average Directional Index with its +DI and -DI lines,
// all Wilder-smoothed.
func ADX(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	diLength := p.Int("diLength")
	adxLength := p.Int("adxSmoothing")

	n := len(bars)
	tr := nans(n)
	plusDM := nans(n)
	minusDM := nans(n)
	for i := 1; i < n; i++ {
		b, prev := bars[i], bars[i-1]
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prev.Close), math.Abs(b.Low-prev.Close)))
		up := b.High - prev.High
		down := prev.Low - b.Low
		plusDM[i], minusDM[i] = 0, 0
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	smTR := rma(tr, diLength)
	smPlus := rma(plusDM, diLength)
	smMinus := rma(minusDM, diLength)

	plusDI := nans(n)
	minusDI := nans(n)
	dx := nans(n)
	for i := range bars {
		if math.IsNaN(smTR[i]) || smTR[i] == 0 {
			continue
		}
		plusDI[i] = 100 * smPlus[i] / smTR[i]
		minusDI[i] = 100 * smMinus[i] / smTR[i]
		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			continue
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
	}
	adx := rma(dx, adxLength)

	adxLine := series.NewLine("adx", "ADX", bars, adx)
	adxLine.Color = "#F44336"
	adxLine.LineWidth = 2
	plusLine := series.NewLine("plusDI", "+DI", bars, plusDI)
	plusLine.Color = "#2962FF"
	minusLine := series.NewLine("minusDI", "-DI", bars, minusDI)
	minusLine.Color = "#FF6D00"
	return &series.IndicatorResult{Kind: "adx", Lines: []series.Line{adxLine, plusLine, minusLine}}, nil
}

// SAR computes the Parabolic Stop and Reverse. The long/short flip state
// is re-derived in a single pass over the full history on every call.
func SAR(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	step := p.Float("start")
	inc := p.Float("increment")
	maxStep := p.Float("max")

	n := len(bars)
	out := nans(n)
	if n < 2 {
		line := series.NewLine("sar", "SAR", bars, out)
		line.Color = "#2962FF"
		return &series.IndicatorResult{Kind: "sar", Lines: []series.Line{line}}, nil
	}

	var uptrend bool
	var ep, af float64
	if bars[1].High > bars[0].High {
		uptrend = true
		out[1] = bars[0].Low
		ep = bars[1].High
	} else {
		uptrend = false
		out[1] = bars[0].High
		ep = bars[1].Low
	}
	af = step

	for i := 2; i < n; i++ {
		hi, lo := bars[i].High, bars[i].Low
		sar := out[i-1] + af*(ep-out[i-1])

		if uptrend {
			if lo <= sar {
				// flip to downtrend
				uptrend = false
				sar = ep
				ep = lo
				af = step
			} else {
				if hi > ep {
					ep = hi
					af = math.Min(af+inc, maxStep)
				}
				sar = math.Min(sar, math.Min(bars[i-1].Low, bars[i-2].Low))
			}
		} else {
			if hi >= sar {
				// flip to uptrend
				uptrend = true
				sar = ep
				ep = hi
				af = step
			} else {
				if lo < ep {
					ep = lo
					af = math.Min(af+inc, maxStep)
				}
				sar = math.Max(sar, math.Max(bars[i-1].High, bars[i-2].High))
			}
		}
		out[i] = sar
	}

	line := series.NewLine("sar", "SAR", bars, out)
	line.Color = "#2962FF"
	line.LineStyle = series.StyleDotted
	return &series.IndicatorResult{Kind: "sar", Lines: []series.Line{line}}, nil
}

// Supertrend computes the Supertrend bands and splits the active band into
// an up line and a down line. At every post-warmup bar exactly one of the
// two carries a value.
func Supertrend(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	factor := p.Float("factor")
	ranges := atr(bars, p.Int("atrLength"))
	hl2, _ := series.SourceHL2.Values(bars)

	n := len(bars)
	up := nans(n)
	down := nans(n)

	var finalUpper, finalLower float64
	uptrend := true
	started := false
	for i := 0; i < n; i++ {
		if math.IsNaN(ranges[i]) {
			continue
		}
		upper := hl2[i] + factor*ranges[i]
		lower := hl2[i] - factor*ranges[i]
		c := bars[i].Close

		if !started {
			started = true
			finalUpper, finalLower = upper, lower
			uptrend = c > hl2[i]
		} else {
			prevClose := bars[i-1].Close
			if upper < finalUpper || prevClose > finalUpper {
				finalUpper = upper
			}
			if lower > finalLower || prevClose < finalLower {
				finalLower = lower
			}
			if uptrend {
				if c < finalLower {
					uptrend = false
				}
			} else {
				if c > finalUpper {
					uptrend = true
				}
			}
		}

		if uptrend {
			up[i] = finalLower
		} else {
			down[i] = finalUpper
		}
	}

	upLine := series.NewLine("up", "Up Trend", bars, up)
	upLine.Color = "#26A69A"
	downLine := series.NewLine("down", "Down Trend", bars, down)
	downLine.Color = "#EF5350"
	return &series.IndicatorResult{Kind: "supertrend", Lines: []series.Line{upLine, downLine}}, nil
}

// VolatilityStop computes an ATR trailing stop with the same paired-line
// mutual-exclusion contract as Supertrend.
func VolatilityStop(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	mult := p.Float("mult")
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	ranges := atr(bars, p.Int("length"))

	n := len(bars)
	up := nans(n)
	down := nans(n)

	var stop, extreme float64
	uptrend := true
	started := false
	for i := 0; i < n; i++ {
		if math.IsNaN(ranges[i]) {
			continue
		}
		band := mult * ranges[i]
		c := src[i]

		if !started {
			started = true
			uptrend = true
			extreme = c
			stop = c - band
		} else {
			if uptrend {
				extreme = math.Max(extreme, c)
				stop = math.Max(stop, extreme-band)
				if c < stop {
					uptrend = false
					extreme = c
					stop = extreme + band
				}
			} else {
				extreme = math.Min(extreme, c)
				stop = math.Min(stop, extreme+band)
				if c > stop {
					uptrend = true
					extreme = c
					stop = extreme - band
				}
			}
		}

		if uptrend {
			up[i] = stop
		} else {
			down[i] = stop
		}
	}

	upLine := series.NewLine("up", "Up Trend", bars, up)
	upLine.Color = "#26A69A"
	downLine := series.NewLine("down", "Down Trend", bars, down)
	downLine.Color = "#EF5350"
	return &series.IndicatorResult{Kind: "volatility-stop", Lines: []series.Line{upLine, downLine}}, nil
}

// AroonOsc computes the Aroon Oscillator: Aroon up minus Aroon down,
// bounded -100..100.
func AroonOsc(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	n := len(bars)
	out := nans(n)
	for i := length; i < n; i++ {
		highestIdx, lowestIdx := i, i
		hi, lo := math.Inf(-1), math.Inf(1)
		for j := i - length; j <= i; j++ {
			if bars[j].High >= hi {
				hi = bars[j].High
				highestIdx = j
			}
			if bars[j].Low <= lo {
				lo = bars[j].Low
				lowestIdx = j
			}
		}
		upPart := 100 * float64(length-(i-highestIdx)) / float64(length)
		downPart := 100 * float64(length-(i-lowestIdx)) / float64(length)
		out[i] = upPart - downPart
	}
	line := series.NewLine("aroon", "Aroon Osc", bars, out)
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "aroon-osc", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}
