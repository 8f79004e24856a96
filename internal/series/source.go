package series

import "fmt"

// Source selects the scalar derived from each bar that an indicator
// computes over. Derived sources are computed on demand, never stored.
type Source string

const (
	SourceOpen  Source = "open"
	SourceHigh  Source = "high"
	SourceLow   Source = "low"
	SourceClose Source = "close"
	SourceHL2   Source = "hl2"
	SourceHLC3  Source = "hlc3"
	SourceOHLC4 Source = "ohlc4"
	SourceHLCC4 Source = "hlcc4"
)

// Valid reports whether s names a known source selector.
func (s Source) Valid() bool {
	switch s {
	case SourceOpen, SourceHigh, SourceLow, SourceClose,
		SourceHL2, SourceHLC3, SourceOHLC4, SourceHLCC4:
		return true
	}
	return false
}

// Values computes the selected scalar for every bar.
func (s Source) Values(bars []Bar) ([]float64, error) {
	out := make([]float64, len(bars))
	for i, b := range bars {
		switch s {
		case SourceOpen:
			out[i] = b.Open
		case SourceHigh:
			out[i] = b.High
		case SourceLow:
			out[i] = b.Low
		case SourceClose:
			out[i] = b.Close
		case SourceHL2:
			out[i] = (b.High + b.Low) / 2
		case SourceHLC3:
			out[i] = (b.High + b.Low + b.Close) / 3
		case SourceOHLC4:
			out[i] = (b.Open + b.High + b.Low + b.Close) / 4
		case SourceHLCC4:
			out[i] = (b.High + b.Low + b.Close + b.Close) / 4
		default:
			return nil, fmt.Errorf("unsupported source selector %q", s)
		}
	}
	return out, nil
}
