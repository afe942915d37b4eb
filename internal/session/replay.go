package session

import (
	"context"
	"fmt"

	"github.com/piwi3910/StackLoad/internal/engine"
	"github.com/piwi3910/StackLoad/internal/project"
)

// StepOutcome is the result of one replayed step.
type StepOutcome struct {
	Index  int // 1-based
	Step   project.Step
	Mode   Mode // mode the step ran in
	Result engine.Result
	// Mismatch is set when the step's expectation was not met.
	Mismatch bool
}

// ReplayResult collects every step outcome of a replay.
type ReplayResult struct {
	Outcomes   []StepOutcome
	Mismatches int
}

// OK reports whether every expectation was met.
func (r ReplayResult) OK() bool {
	return r.Mismatches == 0
}

// Replay runs steps against c in order. A step whose expectation is not met
// is recorded and replay continues. It stops early only when ctx is done.
func Replay(ctx context.Context, c *Context, steps []project.Step) (ReplayResult, error) {
	var out ReplayResult
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		mode := c.Mode()
		res := c.Apply(st)
		o := StepOutcome{Index: i + 1, Step: st, Mode: mode, Result: res}
		switch st.Expect {
		case project.ExpectOK:
			o.Mismatch = !res.Success
		case project.ExpectFail:
			o.Mismatch = res.Success
		}
		if o.Mismatch {
			out.Mismatches++
			c.logger.Warn("unexpected outcome", "step", o.Index, "op", st.Op, "expect", st.Expect, "message", res.Message)
		}
		out.Outcomes = append(out.Outcomes, o)
	}
	return out, nil
}

// Apply performs a single scenario step on the active engine.
func (c *Context) Apply(st project.Step) engine.Result {
	switch st.Op {
	case project.OpPlaceContainer:
		return c.PlaceContainer(st.At)
	case project.OpGenerate:
		_, res := c.Generate()
		return res
	case project.OpPreview:
		c.Tick(st.At)
		view, ok := c.Active().Pending()
		if !ok {
			return engine.Result{Message: "Nothing in hand", Count: c.Count(), Err: engine.ErrNoPendingItem}
		}
		res := engine.Result{Success: view.Valid, Message: view.Message, Count: c.Count()}
		if view.Placement.Column >= 0 {
			res.Column = view.Placement.Column + 1
		}
		return res
	case project.OpPlace:
		return c.Place(st.At)
	case project.OpRemove, project.OpReposition, project.OpMark:
		p, ok := c.Lookup(st.Box)
		if !ok {
			return engine.Result{
				Message: fmt.Sprintf("No box %q on the %s", st.Box, c.Active().Spec().Name),
				Count:   c.Count(),
				Err:     engine.ErrNotPlaced,
			}
		}
		switch st.Op {
		case project.OpRemove:
			return c.Remove(p.Item.ID)
		case project.OpReposition:
			return c.Reposition(p.Item.ID)
		default:
			return c.Mark(p.Item.ID)
		}
	case project.OpCycleColumn:
		_, res := c.CycleColumn()
		return res
	case project.OpSwitchMode:
		m, err := ParseMode(st.Mode)
		if err != nil {
			return engine.Result{Message: err.Error(), Count: c.Count(), Err: err}
		}
		return c.SwitchMode(m)
	case project.OpDiscard:
		c.Discard()
		return engine.Result{Success: true, Message: "Item discarded", Count: c.Count()}
	case project.OpReset:
		return c.Reset()
	default:
		err := fmt.Errorf("unknown op %q", st.Op)
		return engine.Result{Message: err.Error(), Count: c.Count(), Err: err}
	}
}
