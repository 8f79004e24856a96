package kernel

import (
	"testing"
)

func TestBBKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(60))
	res, err := BB(bars, Params{"length": 20, "mult": 2.0, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	basis := res.Line("basis")
	upper := res.Line("upper")
	lower := res.Line("lower")
	if basis.DefinedFrom() != 19 {
		t.Errorf("Expected defined from 19, got %d", basis.DefinedFrom())
	}
	for i := 19; i < len(bars); i++ {
		u, b, l := upper.Points[i].Value, basis.Points[i].Value, lower.Points[i].Value
		if u < b || b < l {
			t.Errorf("Band order violated at index %d: %f/%f/%f", i, u, b, l)
		}
		// bands are symmetric around the basis
		if !almostEqual(u-b, b-l, 1e-9) {
			t.Errorf("Bands not symmetric at index %d", i)
		}
	}
}

func TestBBWKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(40))
	res, err := BBW(bars, Params{"length": 20, "mult": 2.0, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("bbw")
	for i, pt := range line.Points {
		if pt.Valid && pt.Value < 0 {
			t.Errorf("Negative bandwidth at index %d: %f", i, pt.Value)
		}
	}
}

func TestBBTrendKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(80))
	res, err := BBTrend(bars, Params{"shortLength": 20, "longLength": 50, "mult": 2.0, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("bbtrend")
	if line.DefinedFrom() != 49 {
		t.Errorf("Expected defined from 49, got %d", line.DefinedFrom())
	}
}

func TestKeltnerKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(50))
	res, err := Keltner(bars, Params{"length": 20, "mult": 2.0, "atrLength": 10, "source": "close"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	basis := res.Line("basis")
	upper := res.Line("upper")
	lower := res.Line("lower")
	// EMA basis is defined from bar 0; bands wait for the ATR warmup
	if basis.DefinedFrom() != 0 {
		t.Errorf("Expected basis defined from 0, got %d", basis.DefinedFrom())
	}
	if upper.DefinedFrom() != 9 {
		t.Errorf("Expected bands defined from 9, got %d", upper.DefinedFrom())
	}
	for i := 9; i < len(bars); i++ {
		if upper.Points[i].Value < basis.Points[i].Value || basis.Points[i].Value < lower.Points[i].Value {
			t.Errorf("Band order violated at index %d", i)
		}
	}
}

func TestATRKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(30))
	res, err := ATR(bars, Params{"length": 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("atr")
	if line.DefinedFrom() != 13 {
		t.Errorf("Expected defined from 13, got %d", line.DefinedFrom())
	}
	for i, pt := range line.Points {
		if pt.Valid && pt.Value <= 0 {
			t.Errorf("Expected positive ATR at index %d, got %f", i, pt.Value)
		}
	}
}

func TestDonchianKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(40))
	res, err := Donchian(bars, Params{"length": 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upper := res.Line("upper")
	lower := res.Line("lower")
	basis := res.Line("basis")
	for i := 19; i < len(bars); i++ {
		u, l, b := upper.Points[i].Value, lower.Points[i].Value, basis.Points[i].Value
		if !almostEqual(b, (u+l)/2, tolerance) {
			t.Errorf("Basis is not the channel midpoint at index %d", i)
		}
		// the channel contains every bar of its window
		if bars[i].High > u+tolerance || bars[i].Low < l-tolerance {
			t.Errorf("Bar %d escapes its own channel", i)
		}
	}
}

func TestHVKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(40))
	res, err := HV(bars, Params{"length": 10, "annualLength": 365})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("hv")
	// one return bar plus the stdev window
	if line.DefinedFrom() != 10 {
		t.Errorf("Expected defined from 10, got %d", line.DefinedFrom())
	}
	for i, pt := range line.Points {
		if pt.Valid && pt.Value < 0 {
			t.Errorf("Negative volatility at index %d", i)
		}
	}
}

func TestChopKernelBounds(t *testing.T) {
	bars := barsFromCloses(trendingCloses(40))
	res, err := Chop(bars, Params{"length": 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkBounded(t, res.Line("chop"), 0, 100)
	if res.Line("upper") == nil || res.Line("lower") == nil {
		t.Error("missing Fibonacci bands")
	}
}

func TestUlcerKernel(t *testing.T) {
	bars := barsFromCloses(trendingCloses(50))
	res, err := Ulcer(bars, Params{"length": 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := res.Line("ulcer")
	for i, pt := range line.Points {
		if pt.Valid && pt.Value < 0 {
			t.Errorf("Negative ulcer index at %d", i)
		}
	}
}
