package kernel

import (
	"errors"

	"github.com/arijanluiken/candleforge/internal/series"
)

// ErrNotAvailable marks a kind whose data dependency is not wired up yet
// (breadth indicators need market-wide advance/decline feeds). The instance
// surfaces a degraded state instead of a plotted result.
var ErrNotAvailable = errors.New("indicator data not available")

// Params is a validated, normalized parameter map. Kernels read it through
// the typed getters below; the registry validator guarantees every declared
// key is present with the declared type, so the getters stay lenient.
type Params map[string]any

// Int returns the named integer parameter.
func (p Params) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the named float parameter.
func (p Params) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the named boolean parameter.
func (p Params) Bool(key string) bool {
	v, _ := p[key].(bool)
	return v
}

// String returns the named string parameter.
func (p Params) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Source returns the named source selector, defaulting to close.
func (p Params) Source(key string) series.Source {
	if s, ok := p[key].(string); ok && series.Source(s).Valid() {
		return series.Source(s)
	}
	return series.SourceClose
}

// Func is a compute kernel: a pure function from an immutable bar slice and
// validated params to one result. Repeated calls with identical inputs must
// yield identical output; no state survives between invocations.
type Func func(bars []series.Bar, p Params) (*series.IndicatorResult, error)
