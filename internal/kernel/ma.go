package kernel

import (
	"fmt"
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// SMA computes a simple moving average of the selected source.
func SMA(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	line := series.NewLine("plot", "SMA", bars, sma(src, p.Int("length")))
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "sma", Lines: []series.Line{line}}, nil
}

// EMA computes an exponential moving average, defined from the first bar
// because the first source value seeds the recursion.
func EMA(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	line := series.NewLine("plot", "EMA", bars, ema(src, p.Int("length")))
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "ema", Lines: []series.Line{line}}, nil
}

// WMA computes a linearly weighted moving average.
func WMA(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	line := series.NewLine("plot", "WMA", bars, wma(src, p.Int("length")))
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "wma", Lines: []series.Line{line}}, nil
}

// ALMA computes the Arnaud Legoux moving average: a Gaussian-weighted
// window whose focus sits offset*(length-1) bars from the window start.
func ALMA(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	length := p.Int("length")
	offset := p.Float("offset")
	sigma := p.Float("sigma")

	out := nans(len(src))
	if length > 0 && sigma > 0 {
		m := offset * float64(length-1)
		s := float64(length) / sigma
		for i := length - 1; i < len(src); i++ {
			sum, norm := 0.0, 0.0
			ok := true
			for j := 0; j < length; j++ {
				v := src[i-length+1+j]
				if math.IsNaN(v) {
					ok = false
					break
				}
				w := math.Exp(-((float64(j) - m) * (float64(j) - m)) / (2 * s * s))
				sum += v * w
				norm += w
			}
			if ok && norm != 0 {
				out[i] = sum / norm
			}
		}
	}
	line := series.NewLine("plot", "ALMA", bars, out)
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "alma", Lines: []series.Line{line}}, nil
}

// LSMA computes the least squares moving average: the value of the
// rolling linear regression at the window end plus the configured offset.
func LSMA(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	line := series.NewLine("plot", "LSMA", bars, linreg(src, p.Int("length"), p.Int("offset")))
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "lsma", Lines: []series.Line{line}}, nil
}

// McGinley computes the McGinley Dynamic: an EMA-like recursion whose
// smoothing speeds up in fast markets. Seeded with the first source value.
func McGinley(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	length := p.Int("length")

	out := nans(len(src))
	start := firstValid(src)
	if start >= 0 && length > 0 {
		out[start] = src[start]
		for i := start + 1; i < len(src); i++ {
			prev := out[i-1]
			if prev == 0 || math.IsNaN(prev) {
				out[i] = src[i]
				continue
			}
			ratio := src[i] / prev
			denom := float64(length) * math.Pow(ratio, 4)
			if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
				out[i] = prev
				continue
			}
			out[i] = prev + (src[i]-prev)/denom
		}
	}
	line := series.NewLine("plot", "McGinley", bars, out)
	line.Color = "#2962FF"
	return &series.IndicatorResult{Kind: "mcginley", Lines: []series.Line{line}}, nil
}

// ribbonColors is the fast-to-slow color ramp shared by the ribbon kinds.
var ribbonColors = []string{
	"#F5D33E", "#F2BB3C", "#F0A33A", "#ED8B38",
	"#EB7336", "#E85B34", "#E64332", "#E32B30",
}

// MARibbon emits four parallel SMAs on the price pane, fast to slow.
func MARibbon(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	lengths := []int{p.Int("length1"), p.Int("length2"), p.Int("length3"), p.Int("length4")}
	res := &series.IndicatorResult{Kind: "ma-ribbon"}
	for i, n := range lengths {
		line := series.NewLine(fmt.Sprintf("ma%d", i+1), fmt.Sprintf("MA %d", n), bars, sma(src, n))
		line.Color = ribbonColors[i*2]
		res.Lines = append(res.Lines, line)
	}
	return res, nil
}

// EMARibbon emits eight parallel EMAs, base length plus equal steps.
func EMARibbon(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	src, err := p.Source("source").Values(bars)
	if err != nil {
		return nil, err
	}
	base := p.Int("baseLength")
	step := p.Int("step")
	res := &series.IndicatorResult{Kind: "ema-ribbon"}
	for i := 0; i < 8; i++ {
		n := base + i*step
		line := series.NewLine(fmt.Sprintf("ema%d", i+1), fmt.Sprintf("EMA %d", n), bars, ema(src, n))
		line.Color = ribbonColors[i]
		res.Lines = append(res.Lines, line)
	}
	return res, nil
}
