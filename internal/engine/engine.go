package engine

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arijanluiken/candleforge/internal/kernel"
	"github.com/arijanluiken/candleforge/internal/registry"
	"github.com/arijanluiken/candleforge/internal/series"
)

func errUnknownInstance(id string) error {
	return fmt.Errorf("engine: unknown instance %q", id)
}

// Engine owns the bar history and the set of indicator instances. All
// mutating operations are synchronous except SetBars, which recomputes
// every instance concurrently and applies results atomically per
// instance.
type Engine struct {
	mu  sync.Mutex
	log zerolog.Logger
	reg *registry.Registry

	bars        []series.Bar
	barsVersion uint64

	instances map[string]*Instance
	order     []string
	paneCount int

	recomputeTotal uint64
	recomputeWG    sync.WaitGroup

	subs map[chan Event]struct{}
}

// New returns an engine with an empty bar history and no instances.
// Pane 0 is the price pane and always exists.
func New(reg *registry.Registry, log zerolog.Logger) *Engine {
	return &Engine{
		log:       log.With().Str("component", "engine").Logger(),
		reg:       reg,
		instances: make(map[string]*Instance),
		paneCount: 1,
		subs:      make(map[chan Event]struct{}),
	}
}

// Add creates an instance of the given kind, normalizes the parameter
// overrides against its manifest and computes it against the current
// bars. Price-pane kinds land on pane 0; separate-pane kinds get a new
// pane appended to the stack.
func (e *Engine) Add(kind string, overrides map[string]any) (*Instance, error) {
	m, err := e.reg.Get(kind)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inst := &Instance{
		ID:     uuid.NewString(),
		Kind:   kind,
		Params: m.Normalize(overrides),
		Styles: make(map[string]StyleOverride),
	}
	if m.Pane == registry.PaneSeparate {
		inst.PaneID = e.paneCount
		e.paneCount++
	}

	e.compute(inst, m, e.bars)
	e.instances[inst.ID] = inst
	e.order = append(e.order, inst.ID)

	e.log.Info().Str("id", inst.ID).Str("kind", kind).Int("pane", inst.PaneID).Msg("instance added")
	e.publish(Event{Type: EventAdded, InstanceID: inst.ID, Kind: kind})
	return inst, nil
}

// Remove deletes an instance. When it was the last occupant of its pane
// the pane is deleted and the panes above it shift down by one.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		return errUnknownInstance(id)
	}
	delete(e.instances, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	if inst.PaneID > 0 && !e.paneOccupied(inst.PaneID) {
		for _, other := range e.instances {
			if other.PaneID > inst.PaneID {
				other.PaneID--
			}
		}
		e.paneCount--
	}

	e.log.Info().Str("id", id).Str("kind", inst.Kind).Msg("instance removed")
	e.publish(Event{Type: EventRemoved, InstanceID: id, Kind: inst.Kind})
	return nil
}

func (e *Engine) paneOccupied(pane int) bool {
	for _, inst := range e.instances {
		if inst.PaneID == pane {
			return true
		}
	}
	return false
}

// SetParams replaces an instance's parameters and recomputes it. When
// the normalized overrides equal the current parameters the call is a
// no-op and nothing is recomputed.
func (e *Engine) SetParams(id string, overrides map[string]any) (*Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		return nil, errUnknownInstance(id)
	}
	m, err := e.reg.Get(inst.Kind)
	if err != nil {
		return nil, err
	}

	next := m.Normalize(overrides)
	if reflect.DeepEqual(next, inst.Params) {
		return inst, nil
	}
	inst.Params = next
	e.compute(inst, m, e.bars)

	e.log.Debug().Str("id", id).Str("kind", inst.Kind).Msg("params changed")
	e.publish(Event{Type: EventRecomputed, InstanceID: id, Kind: inst.Kind})
	return inst, nil
}

// SetStyle merges a per-line style override. Presentation only: the
// stored result is untouched and no recompute happens.
func (e *Engine) SetStyle(id, lineID string, style StyleOverride) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		return errUnknownInstance(id)
	}
	inst.Styles[lineID] = style
	e.publish(Event{Type: EventStyled, InstanceID: id, Kind: inst.Kind})
	return nil
}

// SetHidden toggles instance visibility without recomputing.
func (e *Engine) SetHidden(id string, hidden bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		return errUnknownInstance(id)
	}
	inst.Hidden = hidden
	e.publish(Event{Type: EventStyled, InstanceID: id, Kind: inst.Kind})
	return nil
}

// MovePane moves a separate-pane instance onto another existing
// separate pane. Price-pane instances are fixed to pane 0. When the
// move empties the source pane that pane is deleted and the panes above
// it shift down, the moved instance included.
func (e *Engine) MovePane(id string, pane int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		return errUnknownInstance(id)
	}
	if inst.PaneID == 0 {
		return fmt.Errorf("engine: instance %q is fixed to the price pane", id)
	}
	if pane < 1 || pane >= e.paneCount {
		return fmt.Errorf("engine: pane %d out of range", pane)
	}
	if pane == inst.PaneID {
		return nil
	}

	src := inst.PaneID
	inst.PaneID = pane
	if !e.paneOccupied(src) {
		for _, other := range e.instances {
			if other.PaneID > src {
				other.PaneID--
			}
		}
		e.paneCount--
	}

	e.log.Debug().Str("id", id).Int("pane", inst.PaneID).Msg("instance moved")
	e.publish(Event{Type: EventMoved, InstanceID: id, Kind: inst.Kind})
	return nil
}

// SetBars replaces the bar history and recomputes every instance in the
// background, one goroutine per instance. A result is applied only if no
// newer bar set arrived while it was being computed, so a slow compute
// can never overwrite a fresher one.
func (e *Engine) SetBars(bars []series.Bar) {
	e.mu.Lock()
	e.bars = bars
	e.barsVersion++
	version := e.barsVersion
	ids := make([]string, len(e.order))
	copy(ids, e.order)
	e.publish(Event{Type: EventBars})
	e.mu.Unlock()

	for _, id := range ids {
		e.recomputeWG.Add(1)
		go func(id string) {
			defer e.recomputeWG.Done()
			e.recomputeAt(id, bars, version)
		}(id)
	}
}

// Wait blocks until all in-flight background recomputes finish.
func (e *Engine) Wait() {
	e.recomputeWG.Wait()
}

func (e *Engine) recomputeAt(id string, bars []series.Bar, version uint64) {
	e.mu.Lock()
	inst, ok := e.instances[id]
	if !ok || e.barsVersion != version {
		e.mu.Unlock()
		return
	}
	m, err := e.reg.Get(inst.Kind)
	if err != nil {
		e.mu.Unlock()
		return
	}
	params := inst.Params
	e.mu.Unlock()

	res, kerr := e.invoke(m, bars, params)

	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok = e.instances[id]
	if !ok || e.barsVersion != version {
		return
	}
	inst.result = res
	inst.err = kerr
	inst.Recomputes++
	e.recomputeTotal++
	e.publish(Event{Type: EventRecomputed, InstanceID: id, Kind: inst.Kind})
}

// compute runs the kernel synchronously. Callers hold e.mu.
func (e *Engine) compute(inst *Instance, m *registry.Manifest, bars []series.Bar) {
	inst.result, inst.err = e.invoke(m, bars, inst.Params)
	inst.Recomputes++
	e.recomputeTotal++
}

// invoke runs one kernel with fault isolation: a panicking kernel yields
// an error state and an empty result instead of taking the engine down.
func (e *Engine) invoke(m *registry.Manifest, bars []series.Bar, params kernel.Params) (res *series.IndicatorResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("kind", m.Kind).Interface("panic", r).Msg("kernel panicked")
			res = series.Whitespace(m.Kind, bars)
			err = fmt.Errorf("kernel %s panicked: %v", m.Kind, r)
		}
	}()

	res, err = m.Kernel(bars, params)
	if err != nil {
		e.log.Warn().Str("kind", m.Kind).Err(err).Msg("kernel failed")
		return series.Whitespace(m.Kind, bars), err
	}
	res.Fills = m.BuildFills(res)
	return res, nil
}

// Get returns an instance by id.
func (e *Engine) Get(id string) (*Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[id]
	if !ok {
		return nil, errUnknownInstance(id)
	}
	return inst, nil
}

// List returns all instances in insertion order.
func (e *Engine) List() []*Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Instance, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.instances[id])
	}
	return out
}

// Bars returns the current bar history.
func (e *Engine) Bars() []series.Bar {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bars
}
