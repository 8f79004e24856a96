package engine

import (
	"math"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/rs/zerolog"

	"github.com/arijanluiken/candleforge/internal/registry"
	"github.com/arijanluiken/candleforge/internal/series"
)

func testBars(n int) []series.Bar {
	bars := make([]series.Bar, n)
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := range bars {
		drift := 0.3*math.Sin(float64(i)/7) + 0.1
		price += drift
		bars[i] = series.Bar{
			Time:   t0.Add(time.Duration(i) * time.Hour),
			Open:   price - 0.2,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1000 + 50*float64(i%13),
		}
	}
	return bars
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(registry.New(), zerolog.Nop())
}

func TestAddComputesAgainstCurrentBars(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(120))
	e.Wait()

	inst, err := e.Add("sma", map[string]any{"length": 10})
	assert.Nil(t, err)
	check.Equal(t, 0, inst.PaneID)
	check.Equal(t, 1, inst.Recomputes)

	res := inst.Result()
	assert.True(t, res != nil)
	line := res.Line("plot")
	assert.True(t, line != nil)
	check.Equal(t, 120, len(line.Points))
	for i, pt := range line.Points {
		check.Equal(t, i >= 9, pt.Valid)
	}
}

func TestPaneStack(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(60))
	e.Wait()

	ema, err := e.Add("ema", nil)
	assert.Nil(t, err)
	rsi, err := e.Add("rsi", nil)
	assert.Nil(t, err)
	macd, err := e.Add("macd", nil)
	assert.Nil(t, err)
	rsi2, err := e.Add("rsi", nil)
	assert.Nil(t, err)

	check.Equal(t, 0, ema.PaneID)
	check.Equal(t, 1, rsi.PaneID)
	check.Equal(t, 2, macd.PaneID)
	check.Equal(t, 3, rsi2.PaneID)

	// removing a middle pane's only occupant shifts the panes above down
	assert.Nil(t, e.Remove(macd.ID))
	check.Equal(t, 1, rsi.PaneID)
	check.Equal(t, 2, rsi2.PaneID)

	// removing a price-pane instance never touches the stack
	assert.Nil(t, e.Remove(ema.ID))
	check.Equal(t, 1, rsi.PaneID)
	check.Equal(t, 2, rsi2.PaneID)

	snap := e.Snapshot()
	check.Equal(t, 3, snap.PaneCount)
	check.Equal(t, 2, len(snap.Instances))
}

func TestMovePane(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(60))
	e.Wait()

	ema, _ := e.Add("ema", nil)
	rsi, _ := e.Add("rsi", nil)
	macd, _ := e.Add("macd", nil)

	// price-pane instances never move
	check.Error(t, e.MovePane(ema.ID, 1))
	// target must be an existing separate pane
	check.Error(t, e.MovePane(rsi.ID, 0))
	check.Error(t, e.MovePane(rsi.ID, 3))

	before := macd.Recomputes
	assert.Nil(t, e.MovePane(macd.ID, 1))
	check.Equal(t, before, macd.Recomputes)

	// pane 2 emptied: both instances now share pane 1
	check.Equal(t, 1, rsi.PaneID)
	check.Equal(t, 1, macd.PaneID)
	check.Equal(t, 2, e.Snapshot().PaneCount)
}

func TestSetParamsRecomputeRules(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(80))
	e.Wait()

	inst, err := e.Add("rsi", map[string]any{"length": 14})
	assert.Nil(t, err)
	check.Equal(t, 1, inst.Recomputes)

	// identical normalized params: no recompute
	_, err = e.SetParams(inst.ID, map[string]any{"length": float64(14)})
	assert.Nil(t, err)
	check.Equal(t, 1, inst.Recomputes)

	// changed params: exactly one recompute
	_, err = e.SetParams(inst.ID, map[string]any{"length": 7})
	assert.Nil(t, err)
	check.Equal(t, 2, inst.Recomputes)
	check.Equal(t, 7, inst.Params.Int("length"))
}

func TestStyleAndHiddenNeverRecompute(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(80))
	e.Wait()

	inst, err := e.Add("ema", nil)
	assert.Nil(t, err)
	before := inst.Recomputes

	assert.Nil(t, e.SetStyle(inst.ID, "plot", StyleOverride{Color: "#FF0000", LineWidth: 3}))
	assert.Nil(t, e.SetHidden(inst.ID, true))
	check.Equal(t, before, inst.Recomputes)
	check.True(t, inst.Hidden)

	res := inst.Result()
	line := res.Line("plot")
	assert.True(t, line != nil)
	check.Equal(t, "#FF0000", line.Color)
	check.Equal(t, 3, line.LineWidth)

	// the stored result keeps its defaults
	check.True(t, inst.result.Line("plot").Color != "#FF0000")
}

func TestSetBarsRecomputesEveryInstance(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(50))
	e.Wait()

	a, _ := e.Add("sma", nil)
	b, _ := e.Add("macd", nil)

	e.SetBars(testBars(90))
	e.Wait()

	check.Equal(t, 2, a.Recomputes)
	check.Equal(t, 2, b.Recomputes)
	check.Equal(t, 90, len(a.Result().Line("plot").Points))

	snap := e.Snapshot()
	check.Equal(t, 90, snap.BarCount)
	check.Equal(t, uint64(4), snap.RecomputeTotal)
}

func TestUnavailableKindDegrades(t *testing.T) {
	e := newTestEngine(t)
	e.SetBars(testBars(30))
	e.Wait()

	inst, err := e.Add("advance-decline-line", nil)
	assert.Nil(t, err)
	assert.Error(t, inst.Err())

	view, err := e.View(inst.ID)
	assert.Nil(t, err)
	check.True(t, view.Error != "")
	check.Equal(t, 0, len(view.Result.Lines))
}

func TestEvents(t *testing.T) {
	e := newTestEngine(t)
	ch := e.Subscribe()
	defer e.Unsubscribe(ch)

	inst, err := e.Add("sma", nil)
	assert.Nil(t, err)
	ev := <-ch
	check.Equal(t, EventAdded, ev.Type)
	check.Equal(t, inst.ID, ev.InstanceID)

	assert.Nil(t, e.Remove(inst.ID))
	ev = <-ch
	check.Equal(t, EventRemoved, ev.Type)
}

func TestUnknownInstanceErrors(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Get("nope")
	check.Error(t, err)
	check.Error(t, e.Remove("nope"))
	check.Error(t, e.SetHidden("nope", true))
	check.Error(t, e.SetStyle("nope", "x", StyleOverride{}))
	_, err = e.SetParams("nope", nil)
	check.Error(t, err)
	_, err = e.Add("nope", nil)
	check.Error(t, err)
}
