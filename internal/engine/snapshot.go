package engine

import (
	"github.com/arijanluiken/candleforge/internal/kernel"
	"github.com/arijanluiken/candleforge/internal/series"
)

// InstanceView is a read-consistent projection of one instance, taken
// under the engine lock so the API layer never observes a half-applied
// recompute.
type InstanceView struct {
	ID         string                  `json:"id"`
	Kind       string                  `json:"kind"`
	Params     kernel.Params           `json:"params"`
	PaneID     int                     `json:"paneId"`
	Hidden     bool                    `json:"hidden"`
	Recomputes int                     `json:"recomputes"`
	Error      string                  `json:"error,omitempty"`
	Result     *series.IndicatorResult `json:"result,omitempty"`
}

// Snapshot is the engine's diagnostic projection.
type Snapshot struct {
	BarCount       int            `json:"barCount"`
	BarsVersion    uint64         `json:"barsVersion"`
	PaneCount      int            `json:"paneCount"`
	RecomputeTotal uint64         `json:"recomputeTotal"`
	Instances      []InstanceView `json:"instances"`
}

func (e *Engine) viewLocked(inst *Instance) InstanceView {
	v := InstanceView{
		ID:         inst.ID,
		Kind:       inst.Kind,
		Params:     inst.Params,
		PaneID:     inst.PaneID,
		Hidden:     inst.Hidden,
		Recomputes: inst.Recomputes,
		Result:     inst.Result(),
	}
	if inst.err != nil {
		v.Error = inst.err.Error()
	}
	return v
}

// View returns a consistent projection of one instance.
func (e *Engine) View(id string) (InstanceView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[id]
	if !ok {
		return InstanceView{}, errUnknownInstance(id)
	}
	return e.viewLocked(inst), nil
}

// Views returns projections of all instances in insertion order.
func (e *Engine) Views() []InstanceView {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]InstanceView, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.viewLocked(e.instances[id]))
	}
	return out
}

// Snapshot captures the engine's current state for diagnostics. Results
// are included so a client can rebuild a chart from one call.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{
		BarCount:       len(e.bars),
		BarsVersion:    e.barsVersion,
		PaneCount:      e.paneCount,
		RecomputeTotal: e.recomputeTotal,
		Instances:      make([]InstanceView, 0, len(e.order)),
	}
	for _, id := range e.order {
		s.Instances = append(s.Instances, e.viewLocked(e.instances[id]))
	}
	return s
}
