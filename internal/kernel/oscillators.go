package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// rsiValues computes the RSI series with Wilder smoothing; shared by the
// RSI kind, Stochastic RSI and the divergence detectors. A flat window
// (zero average gain and loss) is numeric instability and yields NaN.
func rsiValues(src []float64, period int) []float64 {
	out := nans(len(src))
	gains := nans(len(src))
	losses := nans(len(src))
	for i := 1; i < len(src); i++ {
		d := src[i] - src[i-1]
		if d > 0 {
			gains[i], losses[i] = d, 0
		} else {
			gains[i], losses[i] = 0, -d
		}
	}
	avgGain := rma(gains, period)
	avgLoss := rma(losses, period)
	for i := range src {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		switch {
		case l == 0 && g == 0:
			// flat window, no defined ratio
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}

// thresholdLines builds the static horizontal band lines that several
// oscillators plot alongside their main series.
func thresholdLines(bars []series.Bar, levels map[string]float64) []series.Line {
	order := []string{"upper", "middle", "lower", "zero"}
	var lines []series.Line
	for _, id := range order {
		level, ok := levels[id]
		if !ok {
			continue
		}
		l := series.ConstLine(id, id, bars, level, 0)
		l.Color = "#787B86"
		l.LastValueVisible = false
		lines = append(lines, l)
	}
	return lines
}

// RSI computes the Relative Strength Index with 70/50/30 bands.
func RSI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	line := series.NewLine("rsi", "RSI", bars, rsiValues(src, p.Int("length")))
	line.Color = "#7E57C2"
	res := &series.IndicatorResult{Kind: "rsi", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 70, "middle": 50, "lower": 30})...)
	return res, nil
}

// stochRaw computes the raw %K: where close sits within the high-low
// window. A zero-width window is degraded to NaN at that point.
func stochRaw(closes, highs, lows []float64, length int) []float64 {
	hh := highest(highs, length)
	ll := lowest(lows, length)
	out := nans(len(closes))
	for i := range closes {
		if math.IsNaN(hh[i]) || math.IsNaN(ll[i]) {
			continue
		}
		denom := hh[i] - ll[i]
		if denom == 0 {
			continue
		}
		out[i] = 100 * (closes[i] - ll[i]) / denom
	}
	return out
}

// Stoch computes the Stochastic oscillator (%K smoothed, %D) with
// 80/50/20 bands.
func Stoch(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	closes, _ := series.SourceClose.Values(bars)
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)

	k := sma(stochRaw(closes, highs, lows, p.Int("kLength")), p.Int("kSmoothing"))
	d := sma(k, p.Int("dSmoothing"))

	kLine := series.NewLine("k", "%K", bars, k)
	kLine.Color = "#2962FF"
	dLine := series.NewLine("d", "%D", bars, d)
	dLine.Color = "#FF6D00"

	res := &series.IndicatorResult{Kind: "stoch", Lines: []series.Line{kLine, dLine}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 80, "middle": 50, "lower": 20})...)
	return res, nil
}

// StochRSI applies the stochastic formula to an RSI series.
func StochRSI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	rsi := rsiValues(src, p.Int("rsiLength"))
	stoch := stochRaw(rsi, rsi, rsi, p.Int("stochLength"))
	k := sma(stoch, p.Int("kSmoothing"))
	d := sma(k, p.Int("dSmoothing"))

	kLine := series.NewLine("k", "%K", bars, k)
	kLine.Color = "#2962FF"
	dLine := series.NewLine("d", "%D", bars, d)
	dLine.Color = "#FF6D00"

	res := &series.IndicatorResult{Kind: "stochrsi", Lines: []series.Line{kLine, dLine}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 80, "middle": 50, "lower": 20})...)
	return res, nil
}

// CCI computes the Commodity Channel Index over the typical price.
func CCI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	mean := sma(src, length)
	out := nans(len(src))
	for i := length - 1; i < len(src); i++ {
		if math.IsNaN(mean[i]) {
			continue
		}
		dev := 0.0
		for j := i - length + 1; j <= i; j++ {
			dev += math.Abs(src[j] - mean[i])
		}
		dev /= float64(length)
		if dev == 0 {
			continue
		}
		out[i] = (src[i] - mean[i]) / (0.015 * dev)
	}
	line := series.NewLine("cci", "CCI", bars, out)
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "cci", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 100, "zero": 0, "lower": -100})...)
	return res, nil
}

// ROC computes the percentage rate of change over length bars.
func ROC(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	out := nans(len(src))
	for i := length; i < len(src); i++ {
		if src[i-length] == 0 {
			continue
		}
		out[i] = 100 * (src[i] - src[i-length]) / src[i-length]
	}
	line := series.NewLine("roc", "ROC", bars, out)
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "roc", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}

// WilliamsR computes Williams %R with -20/-50/-80 bands.
func WilliamsR(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	closes, _ := series.SourceClose.Values(bars)
	highs, _ := series.SourceHigh.Values(bars)
	lows, _ := series.SourceLow.Values(bars)

	hh := highest(highs, length)
	ll := lowest(lows, length)
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(hh[i]) || math.IsNaN(ll[i]) || hh[i]-ll[i] == 0 {
			continue
		}
		out[i] = 100 * (closes[i] - hh[i]) / (hh[i] - ll[i])
	}
	line := series.NewLine("willr", "%R", bars, out)
	line.Color = "#7E57C2"
	res := &series.IndicatorResult{Kind: "williams-r", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": -20, "middle": -50, "lower": -80})...)
	return res, nil
}

// CMO computes the Chande Momentum Oscillator: net gains over total
// movement, scaled to the -100..100 range.
func CMO(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	ups := nans(len(src))
	downs := nans(len(src))
	for i := 1; i < len(src); i++ {
		d := src[i] - src[i-1]
		if d > 0 {
			ups[i], downs[i] = d, 0
		} else {
			ups[i], downs[i] = 0, -d
		}
	}
	sumUp := rollingSum(ups, length)
	sumDown := rollingSum(downs, length)
	out := nans(len(src))
	for i := range src {
		if math.IsNaN(sumUp[i]) || math.IsNaN(sumDown[i]) || sumUp[i]+sumDown[i] == 0 {
			continue
		}
		out[i] = 100 * (sumUp[i] - sumDown[i]) / (sumUp[i] + sumDown[i])
	}
	line := series.NewLine("cmo", "CMO", bars, out)
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "cmo", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 50, "zero": 0, "lower": -50})...)
	return res, nil
}

// TRIX computes the rate of change of a triple-smoothed log-price EMA,
// scaled by 10000. Non-positive source values cannot be logged and degrade
// pointwise.
func TRIX(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	length := p.Int("length")
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	logs := nans(len(src))
	for i, v := range src {
		if v > 0 {
			logs[i] = math.Log(v)
		}
	}
	triple := ema(ema(ema(logs, length), length), length)
	out := nans(len(src))
	for i := 1; i < len(src); i++ {
		if math.IsNaN(triple[i]) || math.IsNaN(triple[i-1]) {
			continue
		}
		out[i] = 10000 * (triple[i] - triple[i-1])
	}
	line := series.NewLine("trix", "TRIX", bars, out)
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "trix", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}

// tsiValues computes the double-smoothed momentum ratio shared by TSI and
// the SMI Ergodic kinds. Scale 100 gives the classic -100..100 TSI; scale 1
// gives the -1..1 SMI.
func tsiValues(src []float64, long, short int, scale float64) []float64 {
	mom := nans(len(src))
	absMom := nans(len(src))
	for i := 1; i < len(src); i++ {
		d := src[i] - src[i-1]
		mom[i] = d
		absMom[i] = math.Abs(d)
	}
	num := ema(ema(mom, long), short)
	den := ema(ema(absMom, long), short)
	out := nans(len(src))
	for i := range src {
		if math.IsNaN(num[i]) || math.IsNaN(den[i]) || den[i] == 0 {
			continue
		}
		out[i] = scale * num[i] / den[i]
	}
	return out
}

// TSI computes the True Strength Index with its signal line.
func TSI(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	tsi := tsiValues(src, p.Int("longLength"), p.Int("shortLength"), 100)
	signal := ema(tsi, p.Int("signalLength"))

	tsiLine := series.NewLine("tsi", "TSI", bars, tsi)
	tsiLine.Color = "#2962FF"
	sigLine := series.NewLine("signal", "Signal", bars, signal)
	sigLine.Color = "#FF6D00"

	res := &series.IndicatorResult{Kind: "tsi", Lines: []series.Line{tsiLine, sigLine}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}

// SMIErgodic computes the SMI Ergodic Indicator: an unscaled TSI and its
// EMA signal line.
func SMIErgodic(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	smi := tsiValues(src, p.Int("longLength"), p.Int("shortLength"), 1)
	signal := ema(smi, p.Int("signalLength"))

	smiLine := series.NewLine("smi", "SMI", bars, smi)
	smiLine.Color = "#2962FF"
	sigLine := series.NewLine("signal", "Signal", bars, signal)
	sigLine.Color = "#FF6D00"
	return &series.IndicatorResult{Kind: "smi-ergodic", Lines: []series.Line{smiLine, sigLine}}, nil
}

// SMIErgodicOsc computes the SMI Ergodic Oscillator: the histogram of SMI
// minus its signal line.
func SMIErgodicOsc(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	smi := tsiValues(src, p.Int("longLength"), p.Int("shortLength"), 1)
	signal := ema(smi, p.Int("signalLength"))
	out := nans(len(src))
	for i := range src {
		if math.IsNaN(smi[i]) || math.IsNaN(signal[i]) {
			continue
		}
		out[i] = smi[i] - signal[i]
	}
	line := series.NewLine("osc", "SMI Osc", bars, out)
	line.Color = "#2962FF"
	line.Render = series.RenderHistogram
	return &series.IndicatorResult{Kind: "smi-ergodic-osc", Lines: []series.Line{line}}, nil
}

// Ultimate computes the Ultimate Oscillator over three lookback windows.
func Ultimate(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	p1, p2, p3 := p.Int("length1"), p.Int("length2"), p.Int("length3")

	bp := nans(len(bars))
	tr := nans(len(bars))
	for i := 1; i < len(bars); i++ {
		b := bars[i]
		prevClose := bars[i-1].Close
		lo := math.Min(b.Low, prevClose)
		hi := math.Max(b.High, prevClose)
		bp[i] = b.Close - lo
		tr[i] = hi - lo
	}
	avg := func(n int) []float64 {
		sb := rollingSum(bp, n)
		st := rollingSum(tr, n)
		out := nans(len(bars))
		for i := range out {
			if math.IsNaN(sb[i]) || math.IsNaN(st[i]) || st[i] == 0 {
				continue
			}
			out[i] = sb[i] / st[i]
		}
		return out
	}
	a1, a2, a3 := avg(p1), avg(p2), avg(p3)
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(a1[i]) || math.IsNaN(a2[i]) || math.IsNaN(a3[i]) {
			continue
		}
		out[i] = 100 * (4*a1[i] + 2*a2[i] + a3[i]) / 7
	}
	line := series.NewLine("uo", "UO", bars, out)
	line.Color = "#7E57C2"
	res := &series.IndicatorResult{Kind: "ultimate", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"upper": 70, "middle": 50, "lower": 30})...)
	return res, nil
}

// Awesome computes the Awesome Oscillator histogram: fast minus slow SMA
// of the bar midpoint.
func Awesome(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	hl2, _ := series.SourceHL2.Values(bars)
	fast := sma(hl2, p.Int("fastLength"))
	slow := sma(hl2, p.Int("slowLength"))
	out := nans(len(bars))
	for i := range bars {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			continue
		}
		out[i] = fast[i] - slow[i]
	}
	line := series.NewLine("ao", "AO", bars, out)
	line.Color = "#26A69A"
	line.Render = series.RenderHistogram
	return &series.IndicatorResult{Kind: "awesome", Lines: []series.Line{line}}, nil
}

// Coppock computes the Coppock Curve: a WMA of the sum of a long and a
// short rate of change.
func Coppock(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	long, short := p.Int("longRoCLength"), p.Int("shortRoCLength")
	roc := func(n int) []float64 {
		out := nans(len(src))
		for i := n; i < len(src); i++ {
			if src[i-n] == 0 {
				continue
			}
			out[i] = 100 * (src[i] - src[i-n]) / src[i-n]
		}
		return out
	}
	longROC, shortROC := roc(long), roc(short)
	sum := nans(len(src))
	for i := range src {
		if math.IsNaN(longROC[i]) || math.IsNaN(shortROC[i]) {
			continue
		}
		sum[i] = longROC[i] + shortROC[i]
	}
	line := series.NewLine("coppock", "Coppock", bars, wma(sum, p.Int("wmaLength")))
	line.Color = "#2962FF"
	res := &series.IndicatorResult{Kind: "coppock", Lines: []series.Line{line}}
	res.Lines = append(res.Lines, thresholdLines(bars, map[string]float64{"zero": 0})...)
	return res, nil
}
