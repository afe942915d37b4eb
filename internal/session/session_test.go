package session

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StackLoad/internal/engine"
	"github.com/piwi3910/StackLoad/internal/model"
)

func newContext(t *testing.T, boxes ...model.BoxSpec) *Context {
	t.Helper()
	src := engine.NewQueueSource(boxes, nil)
	c, err := New(model.DefaultSettings(), src, log.New(io.Discard))
	require.NoError(t, err)
	return c
}

func cube(s float64) model.BoxSpec {
	return model.BoxSpec{Width: s, Height: s, Depth: s}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Truck")
	require.NoError(t, err)
	assert.Equal(t, ModeTruck, m)

	m, err = ParseMode(" pallet ")
	require.NoError(t, err)
	assert.Equal(t, ModePallet, m)

	_, err = ParseMode("ship")
	assert.Error(t, err)
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.MinDimension = 0
	_, err := New(s, engine.NewQueueSource(nil, nil), nil)
	assert.Error(t, err)
}

func TestContext_StartsInPalletMode(t *testing.T) {
	c := newContext(t)
	assert.Equal(t, ModePallet, c.Mode())
	assert.Same(t, c.Pallet, c.Active())
	assert.Equal(t, model.KindOpenFootprint, c.Active().Spec().Kind)
}

func TestContext_ForwardsToActiveEngineOnly(t *testing.T) {
	c := newContext(t, cube(0.2), cube(0.2))
	origin := &model.Vec3{}

	require.True(t, c.PlaceContainer(origin).Success)
	_, res := c.Generate()
	require.True(t, res.Success)
	c.Tick(origin)
	require.True(t, c.Place(origin).Success)

	assert.Equal(t, 1, c.Pallet.Count())
	assert.Equal(t, engine.StateNoContainer, c.Truck.State())

	c.SwitchMode(ModeTruck)
	require.True(t, c.PlaceContainer(origin).Success)
	_, res = c.Generate()
	require.True(t, res.Success)
	res = c.Place(nil)
	require.True(t, res.Success, res.Message)

	assert.Equal(t, 1, c.Truck.Count())
	assert.Equal(t, 1, c.Pallet.Count())
}

func TestContext_SwitchModeDiscardsPending(t *testing.T) {
	c := newContext(t, cube(0.2))
	require.True(t, c.PlaceContainer(&model.Vec3{}).Success)
	_, res := c.Generate()
	require.True(t, res.Success)

	res = c.SwitchMode(ModeTruck)
	assert.True(t, res.Success)
	assert.Equal(t, ModeTruck, c.Mode())
	_, pending := c.Pallet.Pending()
	assert.False(t, pending)
	assert.Equal(t, engine.StateReady, c.Pallet.State())
}

func TestContext_SwitchToSameModeKeepsPending(t *testing.T) {
	c := newContext(t, cube(0.2))
	require.True(t, c.PlaceContainer(&model.Vec3{}).Success)
	_, _ = c.Generate()

	res := c.SwitchMode(ModePallet)
	assert.True(t, res.Success)
	_, pending := c.Pallet.Pending()
	assert.True(t, pending)
}

func TestContext_TickOnlyMovesActivePending(t *testing.T) {
	c := newContext(t, cube(0.2), cube(0.2))
	require.True(t, c.PlaceContainer(&model.Vec3{}).Success)
	c.SwitchMode(ModeTruck)
	require.True(t, c.PlaceContainer(&model.Vec3{}).Success)
	_, _ = c.Generate()

	c.Tick(&model.Vec3{X: 0.3})

	_, palletPending := c.Pallet.Pending()
	assert.False(t, palletPending)
	view, ok := c.Truck.Pending()
	require.True(t, ok)
	assert.Equal(t, 0, view.Placement.Column)
}

func TestContext_LookupByLabel(t *testing.T) {
	c := newContext(t, cube(0.2))
	origin := &model.Vec3{}
	require.True(t, c.PlaceContainer(origin).Success)
	item, _ := c.Generate()
	require.True(t, c.Place(origin).Success)

	p, ok := c.Lookup("Box 1")
	require.True(t, ok)
	assert.Equal(t, item.ID, p.Item.ID)

	p, ok = c.Lookup(item.ID)
	require.True(t, ok)
	assert.Equal(t, "Box 1", p.Item.Label)

	_, ok = c.Lookup("Box 9")
	assert.False(t, ok)
}

func TestContext_ResetOnlyActive(t *testing.T) {
	c := newContext(t)
	require.True(t, c.PlaceContainer(&model.Vec3{}).Success)
	c.SwitchMode(ModeTruck)
	require.True(t, c.PlaceContainer(&model.Vec3{}).Success)

	c.Reset()

	assert.Equal(t, engine.StateNoContainer, c.Truck.State())
	assert.Equal(t, engine.StateReady, c.Pallet.State())
}
