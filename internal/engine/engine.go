// Package engine implements the container packing and stacking rules: where
// a box comes to rest, whether it may rest there, and how committed boxes are
// removed or picked back up without leaving anything unsupported.
//
// An Engine is driven synchronously by its caller (one call per frame for
// Preview, one call per user action for everything else) and is not safe for
// concurrent use.
package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/StackLoad/internal/model"
)

// Outcome errors carried in Result.Err.
var (
	ErrNoContainer    = errors.New("place the container first")
	ErrNoPendingItem  = errors.New("generate an item first")
	ErrNoSurface      = errors.New("no surface detected")
	ErrStacking       = errors.New("stacking rule violated")
	ErrHeightLimit    = errors.New("invalid placement")
	ErrHandsFull      = errors.New("item in hand")
	ErrNotPlaced      = errors.New("item is not on the container")
	ErrSupportsOthers = errors.New("remove the item(s) above it first")
	ErrUnsupported    = errors.New("operation not available for this container")
)

// State is the lifecycle state of an Engine.
type State int

const (
	StateNoContainer State = iota // nothing placed yet, or reset
	StateReady                    // container placed, hands empty
	StatePreviewing               // container placed, a pending box is in hand
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePreviewing:
		return "previewing"
	default:
		return "no-container"
	}
}

// Result is the user-facing outcome of an operation.
type Result struct {
	Success bool
	Message string
	Count   int   // committed boxes after the operation
	Column  int   // 1-based lane number for grid placements, 0 otherwise
	Err     error // one of the Err* outcome errors when Success is false
}

// PendingView is the box in hand as last resolved.
type PendingView struct {
	Placement model.Placement
	Support   *model.Placement
	Valid     bool
	Message   string // why the placement is invalid, "" when valid
}

// pending is the box in hand.
type pending struct {
	item model.Item
	view PendingView
}

// evaluation is a resolved candidate plus its legality.
type evaluation struct {
	Resolution
	err     error
	message string
}

func (ev evaluation) valid() bool {
	return ev.err == nil
}

// Engine owns one container and the authoritative list of boxes committed to it.
type Engine struct {
	spec   model.ContainerSpec
	source ItemSource
	logger *log.Logger

	container  *Container
	placements []model.Placement
	pending    *pending
	column     int
	lastTarget *Target
	generated  int
}

// New creates an engine for containers of the given spec.
// If logger is nil, log.Default() is used.
func New(spec model.ContainerSpec, source ItemSource, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		spec:   spec.Clone(),
		source: source,
		logger: logger,
	}
}

// Spec returns the container spec this engine places.
func (e *Engine) Spec() model.ContainerSpec {
	return e.spec.Clone()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	switch {
	case e.container == nil:
		return StateNoContainer
	case e.pending != nil:
		return StatePreviewing
	default:
		return StateReady
	}
}

// Container returns the placed container, or nil.
func (e *Engine) Container() *Container {
	return e.container
}

// Count returns the number of committed boxes.
func (e *Engine) Count() int {
	return len(e.placements)
}

// Placements returns a copy of the committed boxes in commit order.
func (e *Engine) Placements() []model.Placement {
	out := make([]model.Placement, len(e.placements))
	copy(out, e.placements)
	return out
}

// Find returns the committed box with the given id.
func (e *Engine) Find(id string) (model.Placement, bool) {
	if i := e.indexOf(id); i >= 0 {
		return e.placements[i], true
	}
	return model.Placement{}, false
}

// FindByLabel returns the committed box with the given label.
func (e *Engine) FindByLabel(label string) (model.Placement, bool) {
	for _, p := range e.placements {
		if p.Item.Label == label {
			return p, true
		}
	}
	return model.Placement{}, false
}

// Pending returns the box in hand, if any.
func (e *Engine) Pending() (PendingView, bool) {
	if e.pending == nil {
		return PendingView{}, false
	}
	return e.pending.view, true
}

// SelectedColumn returns the 0-based lane used by grid previews.
func (e *Engine) SelectedColumn() int {
	return e.column
}

// PlaceContainer instantiates the container at a world position. It is
// ignored once a container exists; only Reset removes it.
func (e *Engine) PlaceContainer(anchor *model.Vec3) Result {
	if e.container != nil {
		return Result{Count: e.Count()}
	}
	if anchor == nil {
		return e.fail(ErrNoSurface, "No surface detected")
	}
	c, err := NewContainer(e.spec, *anchor)
	if err != nil {
		return e.fail(err, err.Error())
	}
	e.container = c
	e.column = 0
	e.lastTarget = nil
	e.logger.Info("container placed", "container", e.spec.Name, "x", anchor.X, "y", anchor.Y, "z", anchor.Z)
	return Result{Success: true, Message: fmt.Sprintf("%s placed", e.spec.Name)}
}

// GenerateItem replaces the box in hand with a newly generated one and
// previews it once. Any previous pending box is discarded.
func (e *Engine) GenerateItem() (model.Item, Result) {
	if e.container == nil {
		return model.Item{}, e.fail(ErrNoContainer, "Place the container first")
	}
	spec, err := e.source.Next()
	if err != nil {
		return model.Item{}, e.fail(err, fmt.Sprintf("Cannot generate a box: %v", err))
	}
	label := spec.Label
	if label == "" {
		label = fmt.Sprintf("Box %d", e.generated+1)
	}
	item, err := model.NewItem(label, spec.Width, spec.Height, spec.Depth)
	if err != nil {
		return model.Item{}, e.fail(err, fmt.Sprintf("Cannot generate a box: %v", err))
	}
	e.generated++

	if e.pending != nil {
		e.logger.Debug("discarding box in hand", "label", e.pending.item.Label)
	}
	e.pending = &pending{item: item}
	e.refreshPending(e.currentTarget())

	return item, Result{
		Success: true,
		Message: "Generated " + item.Describe(),
		Count:   e.Count(),
	}
}

// Preview moves the box in hand to the aimed position and refreshes its
// validity highlight. It does nothing without a container, a box in hand,
// or an anchor. Committed boxes are never touched.
func (e *Engine) Preview(anchor *model.Vec3) {
	if e.container == nil || e.pending == nil || anchor == nil {
		return
	}
	target := e.targetFor(*anchor)
	e.lastTarget = &target
	e.refreshPending(target)
}

// Place commits the box in hand at the aimed position. The placement is
// re-validated against the committed set rather than trusting the last preview.
func (e *Engine) Place(anchor *model.Vec3) Result {
	if e.container == nil {
		return e.fail(ErrNoContainer, "Place the container first")
	}
	if e.pending == nil {
		return e.fail(ErrNoPendingItem, "Generate an item first")
	}
	if anchor == nil && e.container.Kind() == model.KindOpenFootprint {
		return e.fail(ErrNoSurface, "No surface detected")
	}

	target := e.currentTarget()
	if anchor != nil {
		target = e.targetFor(*anchor)
		e.lastTarget = &target
	}

	ev := e.evaluate(e.pending.item, target)
	e.applyPreview(ev)
	if !ev.valid() {
		return e.fail(ev.err, ev.message)
	}

	placed := ev.Placement
	placed.Item.Highlight = model.HighlightNone
	e.placements = append(e.placements, placed)
	e.pending = nil

	res := Result{Success: true, Count: e.Count()}
	if placed.Column != model.NoColumn {
		res.Column = placed.Column + 1
		res.Message = fmt.Sprintf("Placed %s in column %d. Total items: %d", placed.Item.Label, res.Column, res.Count)
	} else {
		res.Message = fmt.Sprintf("Placed %s. Total items: %d", placed.Item.Label, res.Count)
	}
	e.logger.Info("box placed",
		"label", placed.Item.Label,
		"category", placed.Item.Category,
		"y", placed.Y,
		"count", res.Count)
	return res
}

// Remove takes a committed box off the container. Hands must be empty and
// nothing may rest on the box.
func (e *Engine) Remove(id string) Result {
	if e.container == nil {
		return e.fail(ErrNoContainer, "Place the container first")
	}
	if e.pending != nil {
		return e.fail(ErrHandsFull, "Place or discard the item in hand first")
	}
	idx, res, ok := e.removable(id)
	if !ok {
		return res
	}

	removed := e.detach(idx)
	e.logger.Info("box removed", "label", removed.Item.Label, "count", e.Count())
	return Result{
		Success: true,
		Message: fmt.Sprintf("Removed %s. Total items: %d", removed.Item.Label, e.Count()),
		Count:   e.Count(),
	}
}

// Reposition picks a committed box back up so it can be moved. It discards
// whatever was in hand. Only open-footprint containers support it.
func (e *Engine) Reposition(id string) Result {
	if e.container == nil {
		return e.fail(ErrNoContainer, "Place the container first")
	}
	if e.container.Kind() != model.KindOpenFootprint {
		return e.fail(ErrUnsupported, "Repositioning is only available on an open container")
	}
	idx, res, ok := e.removable(id)
	if !ok {
		return res
	}

	if e.pending != nil {
		e.logger.Debug("discarding box in hand", "label", e.pending.item.Label)
	}
	picked := e.detach(idx)
	e.pending = &pending{item: picked.Item}
	target := Target{X: picked.X, Z: picked.Z, Column: model.NoColumn}
	e.lastTarget = &target
	e.refreshPending(target)

	e.logger.Info("box picked up", "label", picked.Item.Label, "count", e.Count())
	return Result{
		Success: true,
		Message: fmt.Sprintf("Picked up %s. Total items: %d", picked.Item.Label, e.Count()),
		Count:   e.Count(),
	}
}

// CycleColumn advances the grid lane and previews the box in hand there.
// It returns the new 0-based lane.
func (e *Engine) CycleColumn() (int, Result) {
	if e.container == nil {
		return e.column, e.fail(ErrNoContainer, "Place the container first")
	}
	n := e.container.ColumnCount()
	if e.container.Kind() != model.KindFixedGrid || n == 0 {
		return e.column, e.fail(ErrUnsupported, "Columns are only available on a grid container")
	}
	e.column = (e.column + 1) % n
	if e.pending != nil {
		e.refreshPending(e.currentTarget())
	}
	return e.column, Result{
		Success: true,
		Message: fmt.Sprintf("Column %d selected", e.column+1),
		Count:   e.Count(),
		Column:  e.column + 1,
	}
}

// MarkForRemoval highlights a committed box as the removal target and clears
// any previous mark. Hands must be empty.
func (e *Engine) MarkForRemoval(id string) Result {
	if e.container == nil {
		return e.fail(ErrNoContainer, "Place the container first")
	}
	if e.pending != nil {
		return e.fail(ErrHandsFull, "Place or discard the item in hand first")
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return e.fail(ErrNotPlaced, "That item is not on the container")
	}
	e.ClearMarks()
	e.placements[idx].Item.Highlight = model.HighlightRemovalTarget
	return Result{
		Success: true,
		Message: fmt.Sprintf("%s selected", e.placements[idx].Item.Label),
		Count:   e.Count(),
	}
}

// ClearMarks removes every removal-target highlight.
func (e *Engine) ClearMarks() {
	for i := range e.placements {
		if e.placements[i].Item.Highlight == model.HighlightRemovalTarget {
			e.placements[i].Item.Highlight = model.HighlightNone
		}
	}
}

// Discard drops the box in hand without committing it.
func (e *Engine) Discard() {
	if e.pending != nil {
		e.logger.Debug("discarding box in hand", "label", e.pending.item.Label)
	}
	e.pending = nil
}

// Reset destroys the container, every committed box and the box in hand.
func (e *Engine) Reset() Result {
	removed := len(e.placements)
	e.container = nil
	e.placements = nil
	e.pending = nil
	e.column = 0
	e.lastTarget = nil
	e.generated = 0
	e.logger.Info("engine reset", "container", e.spec.Name, "removed", removed)
	return Result{Success: true, Message: fmt.Sprintf("%s reset", e.spec.Name)}
}

// removable locates a committed box and checks that nothing rests on it.
func (e *Engine) removable(id string) (int, Result, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return -1, e.fail(ErrNotPlaced, "That item is not on the container"), false
	}
	if above := e.container.Layout().Blockers(e.placements, e.placements[idx]); len(above) > 0 {
		return -1, e.fail(ErrSupportsOthers, "Remove the item(s) above it first"), false
	}
	return idx, Result{}, true
}

// detach removes the committed box at idx and returns it unhighlighted.
func (e *Engine) detach(idx int) model.Placement {
	p := e.placements[idx]
	e.placements = append(e.placements[:idx:idx], e.placements[idx+1:]...)
	p.Item.Highlight = model.HighlightNone
	return p
}

func (e *Engine) indexOf(id string) int {
	for i, p := range e.placements {
		if p.Item.ID == id {
			return i
		}
	}
	return -1
}

// targetFor converts a world anchor into a target for the current layout.
func (e *Engine) targetFor(anchor model.Vec3) Target {
	if e.container.Kind() == model.KindFixedGrid {
		return Target{Column: e.column}
	}
	local := e.container.ToLocal(anchor)
	return Target{X: local.X, Z: local.Z, Column: model.NoColumn}
}

// currentTarget is the selected lane for grids, or the last aimed position
// (container center before the first preview) for open containers.
func (e *Engine) currentTarget() Target {
	if e.container.Kind() == model.KindFixedGrid {
		return Target{Column: e.column}
	}
	if e.lastTarget != nil {
		return *e.lastTarget
	}
	return Target{Column: model.NoColumn}
}

func (e *Engine) refreshPending(target Target) {
	e.applyPreview(e.evaluate(e.pending.item, target))
}

// evaluate resolves a candidate and checks the stacking rule and height limit.
func (e *Engine) evaluate(item model.Item, target Target) evaluation {
	ev := evaluation{Resolution: e.container.Layout().Resolve(e.placements, item, target)}
	if msg := StackError(item, ev.SupportItem()); msg != "" {
		ev.err = ErrStacking
		ev.message = msg
		return ev
	}
	if e.container.ExceedsHeight(ev.Placement) {
		ev.err = ErrHeightLimit
		ev.message = fmt.Sprintf("Invalid placement: the stack would exceed %.2f m", e.spec.MaxStackHeight)
	}
	return ev
}

func (e *Engine) applyPreview(ev evaluation) {
	view := PendingView{
		Placement: ev.Placement,
		Support:   ev.Support,
		Valid:     ev.valid(),
		Message:   ev.message,
	}
	if view.Valid {
		view.Placement.Item.Highlight = model.HighlightNone
	} else {
		view.Placement.Item.Highlight = model.HighlightInvalid
	}
	e.pending.view = view
}

func (e *Engine) fail(err error, msg string) Result {
	e.logger.Debug("operation rejected", "container", e.spec.Name, "reason", msg)
	return Result{Message: msg, Count: e.Count(), Err: err}
}
