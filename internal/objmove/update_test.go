package objmove

import (
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstUpdatePlacesOnFloor(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetXY(f(10), f(10))
	res := o.Update(ctx, &p, 1)

	assert.True(t, res.Updated)
	assert.True(t, o.Placed())
	assert.Equal(t, fixed.Fixed(0), o.z)
	assert.Equal(t, uint16(0), o.AreaSector())
	assert.Equal(t, uint16(0), o.AreaCeilingSector())
	assert.Equal(t, uint16(0), o.CenterSector())
	assert.Equal(t, []uint16{0}, o.Sectors())
	assert.Equal(t, int32(128), o.HighestZ())

	assert.False(t, o.Has(FlagPleaseUpdate), "покоящийся объект снимает флаг обновления")
	assert.False(t, o.Update(ctx, &p, 1).Updated)

	o.SetVelocity(f(8), 0, 0)
	assert.True(t, o.Has(FlagPleaseUpdate))
}

func TestUpdateIntegratesAndAppliesFriction(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetXY(0, 0)
	o.SetVelocity(f(8), 0, 0)
	o.Update(ctx, &p, 1)

	assert.Equal(t, f(1), o.x, "(v·delta)>>3")
	assert.Equal(t, fixed.Fixed(524288-2048*8), o.xv)
	assert.True(t, o.Has(FlagMoved|FlagHasEverMoved))
	assert.True(t, o.Has(FlagPleaseUpdate))
}

func TestExternalVelocityIsOneShot(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetXY(0, 0)
	o.AddExternalVelocity(f(5), 0, 0)
	o.Update(ctx, &p, 1)
	assert.Equal(t, f(5), o.x)

	o.Update(ctx, &p, 1)
	assert.Equal(t, f(5), o.x, "импульс применяется один раз")
	xv, yv, zv := o.ExternalVelocity()
	assert.Equal(t, []fixed.Fixed{0, 0, 0}, []fixed.Fixed{xv, yv, zv})
}

func TestUpdateSlidesAlongWall(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetRadius(32)
	o.SetHeight(64)
	o.SetXY(f(216), 0)
	o.SetFlags(FlagIgnoreMaxVelocity | FlagIgnoreFriction)
	o.SetVelocity(f(240), f(160), 0)
	o.Update(ctx, &p, 1)

	assert.True(t, o.Has(FlagBlocked))
	assert.Equal(t, f(216), o.x, "до стены 40 единиц, радиус 32")
	assert.Equal(t, f(20), o.y)
	assert.Equal(t, fixed.Fixed(0), o.xv, "нормальная составляющая погашена")
	assert.Equal(t, f(160), o.yv)
}

func TestFallThroughUpdate(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetPosition(0, 0, f(100))
	o.Update(ctx, &p, 10)

	assert.Equal(t, fixed.Fixed(0), o.z)
	assert.Equal(t, fixed.Fixed(0), o.zv)
}

func TestStickToCeiling(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetXY(0, 0)
	o.SetFlags(FlagStickToCeiling | FlagIgnoreGravity)
	o.Update(ctx, &p, 1)
	assert.Equal(t, f(128-DefaultHeight), o.z)

	// Перекрывает гравитацию
	o.ClearFlags(FlagIgnoreGravity)
	o.Update(ctx, &p, 3)
	assert.Equal(t, f(128-DefaultHeight), o.z)
	assert.Equal(t, fixed.Fixed(0), o.zv)
}

func TestIgnoreZUpdates(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	o := New(1)
	o.SetPosition(0, 0, f(60))
	o.SetFlags(FlagIgnoreZUpdates)
	o.Update(ctx, &p, 5)
	assert.Equal(t, f(60), o.z)
}

func TestFlowInLiquid(t *testing.T) {
	water := mapdata.DefaultInfo
	water.Type = mapdata.SectorWater
	water.Depth = 16
	water.FlowX = fixed.FromFloat(0.5)
	ctx := roomContext(t, water)
	p := DefaultParams()

	o := New(1)
	o.SetXY(0, 0)
	o.Update(ctx, &p, 1)
	assert.Equal(t, f(-16), o.z, "объект проседает в воде")
	assert.Greater(t, int32(o.x), int32(0), "течение сносит погружённый объект")
	assert.Greater(t, int32(o.xv), int32(0))
	assert.True(t, o.Has(FlagPleaseUpdate), "в течении объект не засыпает")

	still := New(2)
	still.SetXY(0, 0)
	still.SetFlags(FlagDoesNotFlow)
	still.Update(ctx, &p, 1)
	assert.Equal(t, fixed.Fixed(0), still.x)
	assert.False(t, still.Has(FlagPleaseUpdate))
}

func TestStandsOnObject(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	box := &crate{id: 9, x: f(20), y: 0, height: 10}
	require.True(t, ctx.Objects.Link(grid.NewNode(box)))

	o := New(1)
	o.SetXY(0, 0)
	o.Update(ctx, &p, 1)

	assert.Equal(t, int32(10), o.LowestZ())
	assert.Equal(t, f(10), o.z, "объект стоит на ящике")
	assert.True(t, o.Has(FlagRaised))

	top, ok := o.FindHighestObject(ctx)
	require.True(t, ok)
	assert.Equal(t, int32(10), top)
}

func TestCopyKinematics(t *testing.T) {
	ctx := roomContext(t, mapdata.DefaultInfo)
	p := DefaultParams()

	parent := New(1)
	parent.SetXY(0, 0)
	parent.SetVelocity(f(8), 0, 0)
	parent.Update(ctx, &p, 1)

	child := New(2)
	child.CopyKinematics(&parent, f(4), f(-4))
	x, y, z := child.Position()
	assert.Equal(t, parent.x+f(4), x)
	assert.Equal(t, f(-4), y)
	assert.Equal(t, parent.z, z)
	assert.Equal(t, parent.AreaSector(), child.AreaSector())
	assert.Equal(t, parent.Has(FlagMoved), child.Has(FlagMoved))
	assert.Equal(t, uint32(2), child.Owner())
}
