package kernel

import (
	"testing"
)

func TestMACDKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(80))
	res, err := MACD(bars, Params{"fastLength": 12, "slowLength": 26, "signalLength": 9, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	macd := res.Line("macd")
	signal := res.Line("signal")
	hist := res.Line("histogram")
	if macd == nil || signal == nil || hist == nil {
		t.Fatal("missing macd lines")
	}
	for i := range bars {
		if !macd.Points[i].Valid || !signal.Points[i].Valid {
			continue
		}
		want := macd.Points[i].Value - signal.Points[i].Value
		if !almostEqual(hist.Points[i].Value, want, tolerance) {
			t.Errorf("Histogram mismatch at index %d", i)
		}
	}
}

func TestADXKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(80))
	res, err := ADX(bars, Params{"adxSmoothing": 14, "diLength": 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkBounded(t, res.Line("adx"), 0, 100)
	checkBounded(t, res.Line("plusDI"), 0, 100)
	checkBounded(t, res.Line("minusDI"), 0, 100)
}

func TestSARKernel(t *testing.T) {
	// steady uptrend: SAR stays below the lows after warmup
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 1.5*float64(i)
	}
	bars := barsFromCloses(closes)
	res, err := SAR(bars, Params{"start": 0.02, "increment": 0.02, "max": 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("sar")
	if line.DefinedFrom() != 1 {
		t.Errorf("Expected defined from bar 1, got %d", line.DefinedFrom())
	}
	for i := 2; i < len(bars); i++ {
		if !line.Points[i].Valid {
			t.Errorf("Expected SAR value at index %d", i)
			continue
		}
		if line.Points[i].Value >= bars[i].Low {
			t.Errorf("SAR above low in uptrend at index %d: %f >= %f", i, line.Points[i].Value, bars[i].Low)
		}
	}
}

func TestSARFlipsOnReversal(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		if i < 30 {
			closes[i] = 100 + 2*float64(i)
		} else {
			closes[i] = 160 - 2*float64(i-30)
		}
	}
	bars := barsFromCloses(closes)
	res, _ := SAR(bars, Params{"start": 0.02, "increment": 0.02, "max": 0.2})
	line := res.Line("sar")

	// late in the decline the SAR must sit above price
	last := len(bars) - 1
	if !line.Points[last].Valid || line.Points[last].Value <= bars[last].High {
		t.Errorf("Expected SAR above price after reversal, got %f vs high %f", line.Points[last].Value, bars[last].High)
	}
}

func checkExclusivePair(t *testing.T, resKind string, up, down []bool) {
	t.Helper()
	started := false
	for i := range up {
		if up[i] && down[i] {
			t.Errorf("%s: both lines defined at index %d", resKind, i)
		}
		if up[i] || down[i] {
			started = true
		} else if started {
			t.Errorf("%s: neither line defined at post-warmup index %d", resKind, i)
		}
	}
}

func TestSupertrendKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(80))
	res, err := Supertrend(bars, Params{"atrLength": 10, "factor": 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	up := res.Line("up")
	down := res.Line("down")
	if up == nil || down == nil {
		t.Fatal("missing up/down lines")
	}

	upValid := make([]bool, len(bars))
	downValid := make([]bool, len(bars))
	for i := range bars {
		upValid[i] = up.Points[i].Valid
		downValid[i] = down.Points[i].Valid
	}
	checkExclusivePair(t, "supertrend", upValid, downValid)

	// the active band trails on the correct side of price
	for i := range bars {
		if upValid[i] && up.Points[i].Value > bars[i].Close {
			t.Errorf("Up band above close at index %d", i)
		}
		if downValid[i] && down.Points[i].Value < bars[i].Close {
			t.Errorf("Down band below close at index %d", i)
		}
	}
}

func TestVolatilityStopKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(80))
	res, err := VolatilityStop(bars, Params{"length": 20, "mult": 2.0, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	up := res.Line("up")
	down := res.Line("down")

	upValid := make([]bool, len(bars))
	downValid := make([]bool, len(bars))
	for i := range bars {
		upValid[i] = up.Points[i].Valid
		downValid[i] = down.Points[i].Valid
	}
	checkExclusivePair(t, "volatility-stop", upValid, downValid)
}

func TestAroonOscKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(40))
	res, err := AroonOsc(bars, Params{"length": 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("aroon")
	if line.DefinedFrom() != 14 {
		t.Errorf("Expected defined from 14, got %d", line.DefinedFrom())
	}
	checkBounded(t, line, -100, 100)
}

func TestAroonOscExtremes(t *testing.T) {
	// monotone rise: newest bar is both the highest high and, at the
	// window start, the lowest low sits maximally old
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := barsFromCloses(closes)
	res, _ := AroonOsc(bars, Params{"length": 14})
	line := res.Line("aroon")
	v, ok := line.LastValue()
	if !ok || !almostEqual(v, 100, tolerance) {
		t.Errorf("Expected oscillator 100 on monotone rise, got %f", v)
	}
}

func TestIchimokuKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(120))
	res, err := Ichimoku(bars, Params{
		"conversionLength": 9, "baseLength": 26, "spanBLength": 52, "displacement": 26,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := res.Line("conversion")
	base := res.Line("base")
	lag := res.Line("lagging")
	spanA := res.Line("spanA")
	spanB := res.Line("spanB")
	if conv == nil || base == nil || lag == nil || spanA == nil || spanB == nil {
		t.Fatal("missing ichimoku lines")
	}

	if conv.DefinedFrom() != 8 {
		t.Errorf("Expected conversion defined from 8, got %d", conv.DefinedFrom())
	}
	if base.DefinedFrom() != 25 {
		t.Errorf("Expected base defined from 25, got %d", base.DefinedFrom())
	}
	// span A: defined where base is, then displaced forward
	if spanA.DefinedFrom() != 25+26 {
		t.Errorf("Expected span A defined from 51, got %d", spanA.DefinedFrom())
	}
	if spanA.Offset != 26 || spanB.Offset != 26 {
		t.Errorf("Expected span offsets of 26")
	}
	if lag.Offset != -26 {
		t.Errorf("Expected lagging offset of -26, got %d", lag.Offset)
	}
	// lagging span is the close displaced backward
	if !almostEqual(lag.Points[0].Value, bars[26].Close, tolerance) {
		t.Errorf("Lagging span mismatch at index 0")
	}
	// its tail is whitespace
	for i := len(bars) - 26; i < len(bars); i++ {
		if lag.Points[i].Valid {
			t.Errorf("Expected whitespace lagging tail at index %d", i)
		}
	}
}

func TestAlligatorKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(80))
	res, err := Alligator(bars, Params{
		"jawLength": 13, "jawOffset": 8,
		"teethLength": 8, "teethOffset": 5,
		"lipsLength": 5, "lipsOffset": 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jaw := res.Line("jaw")
	teeth := res.Line("teeth")
	lips := res.Line("lips")
	if jaw.Offset != 8 || teeth.Offset != 5 || lips.Offset != 3 {
		t.Error("Alligator offsets not recorded")
	}
	// rma warmup plus forward shift
	if jaw.DefinedFrom() != 12+8 {
		t.Errorf("Expected jaw defined from 20, got %d", jaw.DefinedFrom())
	}
	if lips.DefinedFrom() != 4+3 {
		t.Errorf("Expected lips defined from 7, got %d", lips.DefinedFrom())
	}
}

func TestSARSingleBarIsWhitespace(t *testing.T) {
	bars := barsFromCloses([]float64{100})
	res, err := SAR(bars, Params{"start": 0.02, "increment": 0.02, "max": 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Line("sar").DefinedFrom() != -1 {
		t.Error("Expected all whitespace with a single bar")
	}
}
