package registry

import (
	"math"

	"github.com/arijanluiken/candleforge/internal/kernel"
	"github.com/arijanluiken/candleforge/internal/series"
)

// Normalize merges user parameter overrides with the manifest defaults
// and coerces every value into its declared domain. Unknown keys are
// dropped, numeric values are clamped to [Min, Max], and values of the
// wrong type fall back to the default. The result is always a complete,
// safe parameter set for the kernel.
func (m *Manifest) Normalize(overrides map[string]any) kernel.Params {
	out := make(kernel.Params, len(m.Params))
	for _, spec := range m.Params {
		out[spec.Name] = spec.coerce(spec.Default)
	}
	for name, v := range overrides {
		spec := m.paramSpec(name)
		if spec == nil {
			continue
		}
		out[name] = spec.coerce(v)
	}
	return out
}

func (m *Manifest) paramSpec(name string) *ParamSpec {
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i]
		}
	}
	return nil
}

// coerce converts a raw value into the spec's type and domain, falling
// back to the default when no safe conversion exists.
func (s *ParamSpec) coerce(v any) any {
	switch s.Type {
	case TypeInt:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) {
			f, _ = toFloat(s.Default)
		}
		return int(s.clamp(math.Trunc(f)))
	case TypeFloat:
		f, ok := toFloat(v)
		if !ok || !isFinite(f) {
			f, _ = toFloat(s.Default)
		}
		return s.clamp(f)
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b
		}
		b, _ := s.Default.(bool)
		return b
	case TypeSource:
		if str, ok := v.(string); ok && series.Source(str).Valid() {
			return str
		}
		str, _ := s.Default.(string)
		return str
	case TypeString:
		str, ok := v.(string)
		if ok && len(s.Options) == 0 {
			return str
		}
		if ok {
			for _, opt := range s.Options {
				if str == opt {
					return str
				}
			}
		}
		def, _ := s.Default.(string)
		return def
	}
	return s.Default
}

func (s *ParamSpec) clamp(f float64) float64 {
	if s.Min == 0 && s.Max == 0 {
		return f
	}
	if f < s.Min {
		return s.Min
	}
	if f > s.Max {
		return s.Max
	}
	return f
}

// toFloat widens any numeric value that can arrive from JSON decoding or
// Go callers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
