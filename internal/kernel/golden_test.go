package kernel

import (
	"testing"

	"github.com/arijanluiken/candleforge/internal/series"
)

// goldenCloses is a frozen fixture: a slow grind higher that breaks out
// over the last few bars. The expected values below were verified once
// against an independent implementation and guard the kernel formulas
// against silent regressions.
var goldenCloses = []float64{
	186.79, 186.83, 186.87, 186.91, 186.95, 187.00, 187.04, 187.08,
	187.12, 187.16, 187.21, 187.25, 187.29, 187.33, 187.37, 187.41,
	187.46, 187.50, 187.54, 187.58, 187.62, 187.67, 187.71, 187.75,
	187.79, 187.83, 187.87, 187.92, 187.96, 188.00, 188.04, 188.08,
	188.13, 188.17, 188.14, 188.19, 188.24, 188.28, 188.32, 188.42,
	188.46, 188.50, 188.54, 188.58, 188.63, 188.67, 188.74, 188.71,
	188.81, 188.84, 188.88, 188.92, 188.96, 189.01, 189.06, 189.14,
	189.26, 189.51, 189.91, 190.40, 190.77, 190.98, 191.10, 191.17,
}

func goldenBars() []series.Bar {
	bars := barsFromCloses(goldenCloses)
	for i := range bars {
		bars[i].Open = bars[i].Close - 0.02
		bars[i].High = bars[i].Close + 0.32
		bars[i].Low = bars[i].Close - 0.03
	}
	return bars
}

func lastValue(t *testing.T, res *series.IndicatorResult, id string) float64 {
	t.Helper()
	line := res.Line(id)
	if line == nil {
		t.Fatalf("missing %s line", id)
	}
	v, ok := line.LastValue()
	if !ok {
		t.Fatalf("no defined value on %s", id)
	}
	return v
}

func TestGoldenALMA(t *testing.T) {
	res, err := ALMA(goldenBars(), Params{"length": 9, "offset": 0.85, "sigma": 6.0, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := lastValue(t, res, "plot"); !almostEqual(got, 190.98, 0.02) {
		t.Errorf("Expected 190.98, got %f", got)
	}
}

func TestGoldenLSMA(t *testing.T) {
	res, err := LSMA(goldenBars(), Params{"length": 25, "offset": 0, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := lastValue(t, res, "plot"); !almostEqual(got, 190.58, 0.02) {
		t.Errorf("Expected 190.58, got %f", got)
	}
}

func TestGoldenSAR(t *testing.T) {
	res, err := SAR(goldenBars(), Params{"start": 0.02, "increment": 0.02, "max": 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := lastValue(t, res, "sar"); !almostEqual(got, 190.48, 0.1) {
		t.Errorf("Expected 190.48, got %f", got)
	}
}

func TestGoldenSupertrend(t *testing.T) {
	res, err := Supertrend(goldenBars(), Params{"atrLength": 10, "factor": 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the breakout leaves the trailing stop on the up side
	if got := lastValue(t, res, "up"); !almostEqual(got, 189.88, 0.1) {
		t.Errorf("Expected 189.88, got %f", got)
	}
}
