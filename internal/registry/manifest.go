package registry

import (
	"github.com/arijanluiken/candleforge/internal/kernel"
	"github.com/arijanluiken/candleforge/internal/series"
)

// PaneHint says where an indicator's lines render by default.
type PaneHint string

const (
	PanePrice    PaneHint = "price"
	PaneSeparate PaneHint = "separate"
)

// ParamType is the declared type of a manifest parameter.
type ParamType string

const (
	TypeInt    ParamType = "int"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
	TypeSource ParamType = "source"
	TypeString ParamType = "string"
)

// ParamSpec declares one recognized parameter of an indicator kind: its
// type, default and valid domain. Numeric values outside [Min, Max] are
// clamped by the validator; Min == Max == 0 means unbounded.
type ParamSpec struct {
	Name    string    `json:"name"`
	Type    ParamType `json:"type"`
	Default any       `json:"default"`
	Min     float64   `json:"min,omitempty"`
	Max     float64   `json:"max,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// FillSpec statically declares a fillable line-id pair of a kind. The
// fill builder turns it into a FillDescriptor when both lines exist in a
// result; it never recomputes values.
type FillSpec struct {
	UpperLineID string  `json:"upperLineId"`
	LowerLineID string  `json:"lowerLineId"`
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	Enabled     bool    `json:"enabled"`
}

// Manifest is one entry of the indicator catalog. Adding a kind means
// adding one entry plus its kernel; dispatch never grows a branch.
type Manifest struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Pane     PaneHint    `json:"pane"`
	Params   []ParamSpec `json:"params"`
	Fills    []FillSpec  `json:"fills,omitempty"`
	// Warmup documents the kind's leading-whitespace rule: "windowed"
	// kinds are undefined for the first period-1 bars, "recursive" kinds
	// are defined from the first bar. Shifted lines are called out here.
	Warmup string      `json:"warmup"`
	Kernel kernel.Func `json:"-"`
}

// BuildFills derives the fill descriptors for a computed result from the
// manifest's static pair declarations. Pairs whose lines are missing from
// the result are skipped.
func (m *Manifest) BuildFills(res *series.IndicatorResult) []series.FillDescriptor {
	var fills []series.FillDescriptor
	for _, f := range m.Fills {
		if res.Line(f.UpperLineID) == nil || res.Line(f.LowerLineID) == nil {
			continue
		}
		fills = append(fills, series.FillDescriptor{
			Enabled:     f.Enabled,
			Color:       f.Color,
			Opacity:     f.Opacity,
			UpperLineID: f.UpperLineID,
			LowerLineID: f.LowerLineID,
		})
	}
	return fills
}

func intParam(name string, def, min, max int) ParamSpec {
	return ParamSpec{Name: name, Type: TypeInt, Default: def, Min: float64(min), Max: float64(max)}
}

func floatParam(name string, def, min, max float64) ParamSpec {
	return ParamSpec{Name: name, Type: TypeFloat, Default: def, Min: min, Max: max}
}

func sourceParam(def series.Source) ParamSpec {
	return ParamSpec{Name: "source", Type: TypeSource, Default: string(def)}
}

func lengthParam(def int) ParamSpec {
	return intParam("length", def, 1, 5000)
}

var bandFill = []FillSpec{{UpperLineID: "upper", LowerLineID: "lower", Color: "#2962FF", Opacity: 0.1, Enabled: true}}

func oscFill(color string) []FillSpec {
	return []FillSpec{{UpperLineID: "upper", LowerLineID: "lower", Color: color, Opacity: 0.1, Enabled: true}}
}

const (
	warmupWindowed  = "windowed: first period-1 bars are whitespace"
	warmupRecursive = "recursive: defined from the first bar"
)

// builtinManifests is the full indicator catalog.
func builtinManifests() []Manifest {
	return []Manifest{
		// moving averages
		{
			Kind: "sma", Name: "Moving Average Simple", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(9), sourceParam(series.SourceClose)},
			Warmup: warmupWindowed, Kernel: kernel.SMA,
		},
		{
			Kind: "ema", Name: "Moving Average Exponential", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(9), sourceParam(series.SourceClose)},
			Warmup: warmupRecursive, Kernel: kernel.EMA,
		},
		{
			Kind: "wma", Name: "Moving Average Weighted", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(9), sourceParam(series.SourceClose)},
			Warmup: warmupWindowed, Kernel: kernel.WMA,
		},
		{
			Kind: "alma", Name: "Arnaud Legoux Moving Average", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{
				lengthParam(9),
				floatParam("offset", 0.85, 0, 1),
				floatParam("sigma", 6, 0.1, 100),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupWindowed, Kernel: kernel.ALMA,
		},
		{
			Kind: "lsma", Name: "Least Squares Moving Average", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(25), intParam("offset", 0, -500, 500), sourceParam(series.SourceClose)},
			Warmup: warmupWindowed, Kernel: kernel.LSMA,
		},
		{
			Kind: "mcginley", Name: "McGinley Dynamic", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(14), sourceParam(series.SourceClose)},
			Warmup: warmupRecursive, Kernel: kernel.McGinley,
		},
		{
			Kind: "ma-ribbon", Name: "MA Ribbon", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{
				intParam("length1", 20, 1, 5000), intParam("length2", 50, 1, 5000),
				intParam("length3", 100, 1, 5000), intParam("length4", 200, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupWindowed, Kernel: kernel.MARibbon,
		},
		{
			Kind: "ema-ribbon", Name: "EMA Ribbon", Category: "Moving Averages", Pane: PanePrice,
			Params: []ParamSpec{intParam("baseLength", 20, 1, 5000), intParam("step", 5, 1, 500), sourceParam(series.SourceClose)},
			Warmup: warmupRecursive, Kernel: kernel.EMARibbon,
		},

		// momentum oscillators
		{
			Kind: "rsi", Name: "Relative Strength Index", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14), sourceParam(series.SourceClose)},
			Fills:  oscFill("#7E57C2"),
			Warmup: warmupWindowed, Kernel: kernel.RSI,
		},
		{
			Kind: "stoch", Name: "Stochastic", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("kLength", 14, 1, 5000),
				intParam("kSmoothing", 1, 1, 500),
				intParam("dSmoothing", 3, 1, 500),
			},
			Fills:  oscFill("#2962FF"),
			Warmup: warmupWindowed, Kernel: kernel.Stoch,
		},
		{
			Kind: "stochrsi", Name: "Stochastic RSI", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("rsiLength", 14, 1, 5000),
				intParam("stochLength", 14, 1, 5000),
				intParam("kSmoothing", 3, 1, 500),
				intParam("dSmoothing", 3, 1, 500),
				sourceParam(series.SourceClose),
			},
			Fills:  oscFill("#2962FF"),
			Warmup: warmupWindowed, Kernel: kernel.StochRSI,
		},
		{
			Kind: "cci", Name: "Commodity Channel Index", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(20), sourceParam(series.SourceHLC3)},
			Fills:  oscFill("#2962FF"),
			Warmup: warmupWindowed, Kernel: kernel.CCI,
		},
		{
			Kind: "roc", Name: "Rate Of Change", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(9), sourceParam(series.SourceClose)},
			Warmup: warmupWindowed, Kernel: kernel.ROC,
		},
		{
			Kind: "williams-r", Name: "Williams %R", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14)},
			Fills:  oscFill("#7E57C2"),
			Warmup: warmupWindowed, Kernel: kernel.WilliamsR,
		},
		{
			Kind: "cmo", Name: "Chande Momentum Oscillator", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(9), sourceParam(series.SourceClose)},
			Warmup: warmupWindowed, Kernel: kernel.CMO,
		},
		{
			Kind: "trix", Name: "TRIX", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(18), sourceParam(series.SourceClose)},
			Warmup: warmupRecursive, Kernel: kernel.TRIX,
		},
		{
			Kind: "tsi", Name: "True Strength Index", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("longLength", 25, 1, 5000),
				intParam("shortLength", 13, 1, 5000),
				intParam("signalLength", 13, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupRecursive, Kernel: kernel.TSI,
		},
		{
			Kind: "smi-ergodic", Name: "SMI Ergodic Indicator", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("longLength", 20, 1, 5000),
				intParam("shortLength", 5, 1, 5000),
				intParam("signalLength", 5, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupRecursive, Kernel: kernel.SMIErgodic,
		},
		{
			Kind: "smi-ergodic-osc", Name: "SMI Ergodic Oscillator", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("longLength", 20, 1, 5000),
				intParam("shortLength", 5, 1, 5000),
				intParam("signalLength", 5, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupRecursive, Kernel: kernel.SMIErgodicOsc,
		},
		{
			Kind: "ultimate", Name: "Ultimate Oscillator", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("length1", 7, 1, 5000),
				intParam("length2", 14, 1, 5000),
				intParam("length3", 28, 1, 5000),
			},
			Warmup: warmupWindowed, Kernel: kernel.Ultimate,
		},
		{
			Kind: "awesome", Name: "Awesome Oscillator", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{intParam("fastLength", 5, 1, 5000), intParam("slowLength", 34, 1, 5000)},
			Warmup: warmupWindowed, Kernel: kernel.Awesome,
		},
		{
			Kind: "coppock", Name: "Coppock Curve", Category: "Oscillators", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("wmaLength", 10, 1, 5000),
				intParam("longRoCLength", 14, 1, 5000),
				intParam("shortRoCLength", 11, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupWindowed, Kernel: kernel.Coppock,
		},

		// volatility and bands
		{
			Kind: "bb", Name: "Bollinger Bands", Category: "Volatility", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(20), floatParam("mult", 2, 0.001, 50), sourceParam(series.SourceClose)},
			Fills:  bandFill,
			Warmup: warmupWindowed, Kernel: kernel.BB,
		},
		{
			Kind: "bbw", Name: "Bollinger BandWidth", Category: "Volatility", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(20), floatParam("mult", 2, 0.001, 50), sourceParam(series.SourceClose)},
			Warmup: warmupWindowed, Kernel: kernel.BBW,
		},
		{
			Kind: "bbtrend", Name: "Bollinger Bands Trend", Category: "Volatility", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("shortLength", 20, 1, 5000),
				intParam("longLength", 50, 1, 5000),
				floatParam("mult", 2, 0.001, 50),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupWindowed, Kernel: kernel.BBTrend,
		},
		{
			Kind: "keltner", Name: "Keltner Channels", Category: "Volatility", Pane: PanePrice,
			Params: []ParamSpec{
				lengthParam(20),
				floatParam("mult", 2, 0.001, 50),
				intParam("atrLength", 10, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Fills:  bandFill,
			Warmup: warmupRecursive, Kernel: kernel.Keltner,
		},
		{
			Kind: "atr", Name: "Average True Range", Category: "Volatility", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14)},
			Warmup: warmupWindowed, Kernel: kernel.ATR,
		},
		{
			Kind: "donchian", Name: "Donchian Channels", Category: "Volatility", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(20)},
			Fills:  bandFill,
			Warmup: warmupWindowed, Kernel: kernel.Donchian,
		},
		{
			Kind: "hv", Name: "Historical Volatility", Category: "Volatility", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(10), intParam("annualLength", 365, 1, 366)},
			Warmup: warmupWindowed, Kernel: kernel.HV,
		},
		{
			Kind: "chop", Name: "Choppiness Index", Category: "Volatility", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14)},
			Warmup: warmupWindowed, Kernel: kernel.Chop,
		},
		{
			Kind: "ulcer", Name: "Ulcer Index", Category: "Volatility", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14)},
			Warmup: warmupWindowed, Kernel: kernel.Ulcer,
		},

		// trend
		{
			Kind: "macd", Name: "MACD", Category: "Trend", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("fastLength", 12, 1, 5000),
				intParam("slowLength", 26, 1, 5000),
				intParam("signalLength", 9, 1, 5000),
				sourceParam(series.SourceClose),
			},
			Warmup: warmupRecursive, Kernel: kernel.MACD,
		},
		{
			Kind: "adx", Name: "Average Directional Index", Category: "Trend", Pane: PaneSeparate,
			Params: []ParamSpec{intParam("adxSmoothing", 14, 1, 5000), intParam("diLength", 14, 1, 5000)},
			Warmup: warmupWindowed, Kernel: kernel.ADX,
		},
		{
			Kind: "sar", Name: "Parabolic SAR", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{
				floatParam("start", 0.02, 0.0001, 1),
				floatParam("increment", 0.02, 0.0001, 1),
				floatParam("max", 0.2, 0.0001, 1),
			},
			Warmup: "defined from the second bar; flip state re-derived per call", Kernel: kernel.SAR,
		},
		{
			Kind: "supertrend", Name: "Supertrend", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{intParam("atrLength", 10, 1, 5000), floatParam("factor", 3, 0.001, 100)},
			Warmup: "windowed by ATR; exactly one of up/down is defined per post-warmup bar", Kernel: kernel.Supertrend,
		},
		{
			Kind: "volatility-stop", Name: "Volatility Stop", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{lengthParam(20), floatParam("mult", 2, 0.001, 100), sourceParam(series.SourceClose)},
			Warmup: "windowed by ATR; exactly one of up/down is defined per post-warmup bar", Kernel: kernel.VolatilityStop,
		},
		{
			Kind: "aroon-osc", Name: "Aroon Oscillator", Category: "Trend", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14)},
			Warmup: warmupWindowed, Kernel: kernel.AroonOsc,
		},
		{
			Kind: "ichimoku", Name: "Ichimoku Cloud", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{
				intParam("conversionLength", 9, 1, 5000),
				intParam("baseLength", 26, 1, 5000),
				intParam("spanBLength", 52, 1, 5000),
				intParam("displacement", 26, 1, 500),
			},
			Fills: []FillSpec{{UpperLineID: "spanA", LowerLineID: "spanB", Color: "#43A047", Opacity: 0.1, Enabled: true}},
			Warmup: "windowed; Senkou spans shifted +displacement, Chikou shifted -displacement",
			Kernel: kernel.Ichimoku,
		},
		{
			Kind: "alligator", Name: "Williams Alligator", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{
				intParam("jawLength", 13, 1, 5000), intParam("jawOffset", 8, 0, 500),
				intParam("teethLength", 8, 1, 5000), intParam("teethOffset", 5, 0, 500),
				intParam("lipsLength", 5, 1, 5000), intParam("lipsOffset", 3, 0, 500),
			},
			Warmup: "windowed; each line shifted forward by its offset",
			Kernel: kernel.Alligator,
		},
		{
			Kind: "fractals", Name: "Williams Fractals", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{intParam("periods", 2, 1, 100)},
			Warmup: "marker output; trailing periods bars cannot confirm", Kernel: kernel.Fractals,
		},
		{
			Kind: "zigzag", Name: "Zig Zag", Category: "Trend", Pane: PanePrice,
			Params: []ParamSpec{floatParam("deviation", 5, 0.001, 100), intParam("depth", 10, 1, 1000)},
			Warmup: "pivot polyline; only swing bars carry values (gap-connected)", Kernel: kernel.ZigZag,
		},

		// volume
		{
			Kind: "vwap", Name: "VWAP", Category: "Volume", Pane: PanePrice,
			Params: []ParamSpec{
				{Name: "anchor", Type: TypeString, Default: "session", Options: []string{"session", "none"}},
				floatParam("bandsMult", 1, 0.001, 50),
				sourceParam(series.SourceHLC3),
			},
			Fills: []FillSpec{{UpperLineID: "upper", LowerLineID: "lower", Color: "#4CAF50", Opacity: 0.08, Enabled: true}},
			Warmup: "cumulative from anchor; zero-volume prefixes are whitespace",
			Kernel: kernel.VWAP,
		},
		{
			Kind: "obv", Name: "On Balance Volume", Category: "Volume", Pane: PaneSeparate,
			Params: nil,
			Warmup: warmupRecursive, Kernel: kernel.OBV,
		},
		{
			Kind: "mfi", Name: "Money Flow Index", Category: "Volume", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(14)},
			Fills:  oscFill("#7E57C2"),
			Warmup: warmupWindowed, Kernel: kernel.MFI,
		},
		{
			Kind: "cmf", Name: "Chaikin Money Flow", Category: "Volume", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(20)},
			Warmup: warmupWindowed, Kernel: kernel.CMF,
		},
		{
			Kind: "pvi", Name: "Positive Volume Index", Category: "Volume", Pane: PaneSeparate,
			Params: []ParamSpec{intParam("signalLength", 255, 1, 5000)},
			Warmup: warmupRecursive, Kernel: kernel.PVI,
		},
		{
			Kind: "nvi", Name: "Negative Volume Index", Category: "Volume", Pane: PaneSeparate,
			Params: []ParamSpec{intParam("signalLength", 255, 1, 5000)},
			Warmup: warmupRecursive, Kernel: kernel.NVI,
		},
		{
			Kind: "rvol", Name: "Relative Volume", Category: "Volume", Pane: PaneSeparate,
			Params: []ParamSpec{lengthParam(10)},
			Warmup: warmupWindowed, Kernel: kernel.RVOL,
		},

		// divergence
		{
			Kind: "rsi-divergence", Name: "RSI Divergence", Category: "Divergence", Pane: PaneSeparate,
			Params: []ParamSpec{
				intParam("rsiLength", 14, 1, 5000),
				intParam("pivotLookbackLeft", 5, 1, 100),
				intParam("pivotLookbackRight", 5, 1, 100),
				intParam("rangeLower", 5, 1, 500),
				intParam("rangeUpper", 60, 1, 500),
			},
			Fills:  oscFill("#7E57C2"),
			Warmup: warmupWindowed, Kernel: kernel.RSIDivergence,
		},
		{
			Kind: "knoxville-divergence", Name: "Knoxville Divergence", Category: "Divergence", Pane: PanePrice,
			Params: []ParamSpec{
				intParam("momentumLength", 20, 1, 5000),
				intParam("rsiLength", 21, 1, 5000),
				intParam("barsBack", 200, 1, 500),
				floatParam("overbought", 70, 50, 100),
				floatParam("oversold", 30, 0, 50),
			},
			Warmup: "marker output on the price pane", Kernel: kernel.KnoxvilleDivergence,
		},

		// breadth (stubbed pending external breadth data)
		{
			Kind: "advance-decline-ratio", Name: "Advance/Decline Ratio", Category: "Breadth", Pane: PaneSeparate,
			Params: nil,
			Warmup: "not available: requires market breadth data", Kernel: kernel.AdvanceDeclineRatio,
		},
		{
			Kind: "advance-decline-line", Name: "Advance/Decline Line", Category: "Breadth", Pane: PaneSeparate,
			Params: nil,
			Warmup: "not available: requires market breadth data", Kernel: kernel.AdvanceDeclineLine,
		},
	}
}
