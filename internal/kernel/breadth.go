package kernel

import "github.com/arijanluiken/candleforge/internal/series"

// The breadth kinds need market-wide advance/decline counts that no bar
// sequence carries. They register in the manifest so the catalog is
// complete, but their kernels report ErrNotAvailable and the instance
// surfaces a degraded state with a whitespace line.

// AdvanceDeclineRatio is a stub pending a breadth data collaborator.
func AdvanceDeclineRatio(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	return nil, ErrNotAvailable
}

// AdvanceDeclineLine is a stub pending a breadth data collaborator.
func AdvanceDeclineLine(bars []series.Bar, p Params) (*series.IndicatorResult, error) {
	return nil, ErrNotAvailable
}
