package physics

import (
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/trig"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/stretchr/testify/require"
)

var testTables = trig.Build(trig.DefaultScreenWidth)

type testBody struct {
	id       uint32
	x, y, z  fixed.Fixed
	radius   int32
	height   int32
	passable bool
}

func (b *testBody) BodyID() uint32                  { return b.id }
func (b *testBody) Position() (x, y, z fixed.Fixed) { return b.x, b.y, b.z }
func (b *testBody) BodyRadius() int32               { return b.radius }
func (b *testBody) BodyHeight() int32               { return b.height }
func (b *testBody) IsPassable() bool                { return b.passable }

func newBody(id uint32, x, y int32) *testBody {
	return &testBody{
		id:     id,
		x:      fixed.FromInt(x),
		y:      fixed.FromInt(y),
		radius: 16,
		height: 56,
	}
}

func newContext(t *testing.T, m *mapdata.Map) *Context {
	walls, err := grid.BuildWallGrid(m)
	require.NoError(t, err)
	minX, minY, maxX, maxY := m.Bounds()
	return NewContext(m, walls, grid.NewObjectGrid(minX, minY, maxX, maxY), testTables)
}

// singleRoom квадратная комната -256..256, пол 0, потолок 128
func singleRoom(t *testing.T) *Context {
	b := mapdata.NewBuilder()
	s := b.Sector(0, 128, mapdata.DefaultInfo)
	b.Room(-256, -256, 256, 256, s)
	m, err := b.Build()
	require.NoError(t, err)
	return newContext(t, m)
}

// twoRooms комнаты A (x<0: пол 0, потолок 128) и B (x>0: пол 40, потолок 150),
// разделённые двусторонней линией 3 по x=0
func twoRooms(t *testing.T, sharedFlags mapdata.LineFlags, reject bool) (*Context, uint16, uint16) {
	b := mapdata.NewBuilder()
	a := b.Sector(0, 128, mapdata.DefaultInfo)
	bb := b.Sector(40, 150, mapdata.DefaultInfo)

	b.Wall(-256, -128, -256, 128, a, mapdata.NoSector, 0)
	b.Wall(-256, 128, 0, 128, a, mapdata.NoSector, 0)
	b.Wall(0, -128, -256, -128, a, mapdata.NoSector, 0)
	b.Wall(0, 128, 0, -128, a, bb, sharedFlags)
	b.Wall(0, 128, 256, 128, bb, mapdata.NoSector, 0)
	b.Wall(256, 128, 256, -128, bb, mapdata.NoSector, 0)
	b.Wall(256, -128, 0, -128, bb, mapdata.NoSector, 0)
	if reject {
		b.Reject(a, bb)
	}

	m, err := b.Build()
	require.NoError(t, err)
	return newContext(t, m), a, bb
}

func mover(x, y int32) *Mover {
	return &Mover{
		ID:           1,
		X:            fixed.FromInt(x),
		Y:            fixed.FromInt(y),
		Radius:       16,
		Height:       56,
		ClimbHeight:  24,
		HighestPoint: 128,
	}
}

const sharedLine = 3
