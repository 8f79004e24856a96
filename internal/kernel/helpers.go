package kernel

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/series"
)

// Shared float-series helpers. All of them take and return full-length
// slices aligned with the input bars, with math.NaN() marking warmup or
// undefined entries; series.NewLine later turns those into whitespace.

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstValid(src []float64) int {
	for i, v := range src {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// sma computes a simple moving average. A window is defined only when all
// of its inputs are defined, so leading NaNs push the warmup forward.
func sma(src []float64, period int) []float64 {
	out := nans(len(src))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(src); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(src[j]) {
				ok = false
				break
			}
			sum += src[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// ema computes an exponential moving average seeded with the first defined
// input, so it is defined from the first valid bar onward.
func ema(src []float64, period int) []float64 {
	out := nans(len(src))
	start := firstValid(src)
	if start < 0 || period <= 0 {
		return out
	}
	mult := 2.0 / (float64(period) + 1.0)
	out[start] = src[start]
	for i := start + 1; i < len(src); i++ {
		if math.IsNaN(src[i]) {
			out[i] = out[i-1]
			continue
		}
		out[i] = (src[i] * mult) + (out[i-1] * (1.0 - mult))
	}
	return out
}

// rma computes Wilder's smoothed moving average: seeded with the simple
// average of the first period inputs, then smoothed recursively.
func rma(src []float64, period int) []float64 {
	out := nans(len(src))
	start := firstValid(src)
	if start < 0 || period <= 0 || start+period > len(src) {
		return out
	}
	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += src[i]
	}
	seed := start + period - 1
	out[seed] = sum / float64(period)
	for i := seed + 1; i < len(src); i++ {
		if math.IsNaN(src[i]) {
			out[i] = out[i-1]
			continue
		}
		out[i] = (out[i-1]*float64(period-1) + src[i]) / float64(period)
	}
	return out
}

// wma computes a linearly weighted moving average, newest bar heaviest.
func wma(src []float64, period int) []float64 {
	out := nans(len(src))
	if period <= 0 {
		return out
	}
	norm := float64(period*(period+1)) / 2
	for i := period - 1; i < len(src); i++ {
		sum := 0.0
		ok := true
		for j := 0; j < period; j++ {
			v := src[i-period+1+j]
			if math.IsNaN(v) {
				ok = false
				break
			}
			sum += v * float64(j+1)
		}
		if ok {
			out[i] = sum / norm
		}
	}
	return out
}

// stdev computes the rolling population standard deviation.
func stdev(src []float64, period int) []float64 {
	out := nans(len(src))
	mean := sma(src, period)
	for i := period - 1; i < len(src); i++ {
		if math.IsNaN(mean[i]) {
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := src[j] - mean[i]
			sum += d * d
		}
		out[i] = math.Sqrt(sum / float64(period))
	}
	return out
}

func highest(src []float64, period int) []float64 {
	out := nans(len(src))
	for i := period - 1; i < len(src); i++ {
		hi := math.Inf(-1)
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(src[j]) {
				ok = false
				break
			}
			if src[j] > hi {
				hi = src[j]
			}
		}
		if ok {
			out[i] = hi
		}
	}
	return out
}

func lowest(src []float64, period int) []float64 {
	out := nans(len(src))
	for i := period - 1; i < len(src); i++ {
		lo := math.Inf(1)
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(src[j]) {
				ok = false
				break
			}
			if src[j] < lo {
				lo = src[j]
			}
		}
		if ok {
			out[i] = lo
		}
	}
	return out
}

// change computes src[i] - src[i-lag].
func change(src []float64, lag int) []float64 {
	out := nans(len(src))
	for i := lag; i < len(src); i++ {
		out[i] = src[i] - src[i-lag]
	}
	return out
}

// rollingSum computes the sum of the trailing period values.
func rollingSum(src []float64, period int) []float64 {
	out := nans(len(src))
	for i := period - 1; i < len(src); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(src[j]) {
				ok = false
				break
			}
			sum += src[j]
		}
		if ok {
			out[i] = sum
		}
	}
	return out
}

// trueRanges computes the true range per bar. The first bar has no prior
// close, so its range is plain high minus low.
func trueRanges(bars []series.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			out[i] = b.High - b.Low
			continue
		}
		prev := bars[i-1].Close
		out[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
	}
	return out
}

// atr computes the average true range as Wilder's smoothing of true range.
func atr(bars []series.Bar, period int) []float64 {
	return rma(trueRanges(bars), period)
}

// linreg computes the least-squares regression value at each bar,
// projected offset bars past the window end (offset 0 = endpoint).
func linreg(src []float64, period, offset int) []float64 {
	out := nans(len(src))
	if period <= 1 {
		return out
	}
	for i := period - 1; i < len(src); i++ {
		sumX, sumY, sumXY, sumXX := 0.0, 0.0, 0.0, 0.0
		ok := true
		for j := 0; j < period; j++ {
			v := src[i-period+1+j]
			if math.IsNaN(v) {
				ok = false
				break
			}
			x := float64(j)
			sumX += x
			sumY += v
			sumXY += x * v
			sumXX += x * x
		}
		if !ok {
			continue
		}
		n := float64(period)
		denom := n*sumXX - sumX*sumX
		if denom == 0 {
			continue
		}
		slope := (n*sumXY - sumX*sumY) / denom
		intercept := (sumY - slope*sumX) / n
		out[i] = intercept + slope*float64(period-1+offset)
	}
	return out
}

// shiftForward moves values later by offset bars within a full-length
// slice; values displaced past the last bar are dropped.
func shiftForward(src []float64, offset int) []float64 {
	out := nans(len(src))
	for i := 0; i+offset < len(src); i++ {
		if i+offset >= 0 {
			out[i+offset] = src[i]
		}
	}
	return out
}

// shiftBack moves values earlier by offset bars (lagging spans).
func shiftBack(src []float64, offset int) []float64 {
	out := nans(len(src))
	for i := offset; i < len(src); i++ {
		out[i-offset] = src[i]
	}
	return out
}
