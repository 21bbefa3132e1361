package physics

import (
	"math/rand"
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineHit попадание в стену с наклоном по её концам
func lineHit(c *Context, line int) Hit {
	x1, y1, x2, y2 := c.Map.LineEnds(line)
	return Hit{Line: line, SlopeX: x2 - x1, SlopeY: y2 - y1}
}

func setHits(c *Context, hits ...Hit) {
	c.clearHits()
	for _, h := range hits {
		c.addHit(h)
	}
}

// Северная (1) и восточная (2) стены комнаты сходятся в вершине (256, 256)
const (
	northWall = 1
	eastWall  = 2
)

func TestChooseHitPicksWallClosestToApproach(t *testing.T) {
	c := singleRoom(t)
	m := mover(240, 240)
	c.boxX1, c.boxY1, c.boxX2, c.boxY2 = f(240), f(240), f(272), f(272)

	setHits(c, lineHit(c, eastWall), lineHit(c, northWall))
	h, ok := c.chooseHit(m, vec.FromUnits(20, 4))
	require.True(t, ok)
	assert.Equal(t, northWall, h.Line, "движение почти вдоль северной стены")

	h, ok = c.chooseHit(m, vec.FromUnits(4, 20))
	require.True(t, ok)
	assert.Equal(t, eastWall, h.Line, "движение почти вдоль восточной стены")
}

func TestChooseHitTieKeepsFirstHit(t *testing.T) {
	c := singleRoom(t)
	m := mover(240, 240)
	c.boxX1, c.boxY1, c.boxX2, c.boxY2 = f(240), f(240), f(272), f(272)

	setHits(c, lineHit(c, eastWall), lineHit(c, northWall))
	h, _ := c.chooseHit(m, vec.FromUnits(20, 20))
	assert.Equal(t, eastWall, h.Line, "при равных углах побеждает первое попадание")

	setHits(c, lineHit(c, northWall), lineHit(c, eastWall))
	h, _ = c.chooseHit(m, vec.FromUnits(20, 20))
	assert.Equal(t, northWall, h.Line)
}

func TestChooseHitIgnoresVertexOutsideBox(t *testing.T) {
	c := singleRoom(t)
	m := mover(0, 0)
	c.boxX1, c.boxY1, c.boxX2, c.boxY2 = f(-16), f(-16), f(16), f(16)

	setHits(c, lineHit(c, northWall), lineHit(c, eastWall))
	h, ok := c.chooseHit(m, vec.FromUnits(4, 20))
	require.True(t, ok)
	assert.Equal(t, northWall, h.Line, "без общей вершины в квадрате угол не сравнивается")
}

func TestChooseHitSkipsSteppableWalls(t *testing.T) {
	c, _, _ := twoRooms(t, 0, false)
	m := mover(-20, 0)
	m.ClimbHeight = 40

	setHits(c, lineHit(c, sharedLine), lineHit(c, 0))
	h, ok := c.chooseHit(m, vec.FromUnits(20, 0))
	require.True(t, ok)
	assert.Equal(t, 0, h.Line, "на ступеньку 40 можно шагнуть")

	m.ClimbHeight = 24
	h, _ = c.chooseHit(m, vec.FromUnits(20, 0))
	assert.Equal(t, sharedLine, h.Line, "слишком высокая ступенька блокирует")

	body := newBody(5, 0, 0)
	m.ClimbHeight = 40
	setHits(c, lineHit(c, sharedLine), Hit{Line: NoLine, Body: body, SlopeX: 0, SlopeY: 1})
	h, ok = c.chooseHit(m, vec.FromUnits(20, 0))
	require.True(t, ok)
	assert.Equal(t, NoLine, h.Line, "без стен скольжение идёт вдоль объекта")

	setHits(c, lineHit(c, sharedLine))
	_, ok = c.chooseHit(m, vec.FromUnits(20, 0))
	assert.False(t, ok)
}

func TestNudgeMovesAwayFromSurface(t *testing.T) {
	b := mapdata.NewBuilder()
	s := b.Sector(0, 128, mapdata.DefaultInfo)
	b.Room(-256, -256, 256, 256, s)
	divider := b.Wall(0, -100, 0, 100, s, s, 0) // Идёт на север: справа восток
	m, err := b.Build()
	require.NoError(t, err)
	c := newContext(t, m)
	mv := mover(0, 0)

	got := c.nudge(mv, lineHit(c, divider), vec.FromUnits(-30, 0), vec.FromUnits(0, 10))
	assert.Equal(t, vec.FromUnits(-32, 0), got, "слева от стены нормаль не разворачивается")

	got = c.nudge(mv, lineHit(c, divider), vec.FromUnits(30, 0), vec.FromUnits(0, 10))
	assert.Equal(t, vec.FromUnits(32, 0), got, "справа от стены нормаль разворачивается на 180°")

	got = c.nudge(mv, lineHit(c, eastWall), vec.FromUnits(230, 0), vec.FromUnits(10, 0))
	assert.Equal(t, vec.FromUnits(228, 0), got, "от восточной стены внутрь комнаты")

	got = c.nudge(mv, lineHit(c, eastWall), vec.FromUnits(250, 0), vec.FromUnits(10, 0))
	assert.Equal(t, vec.FromUnits(250, 0), got, "занятая точка не меняется")
}

// wedge острый клин с вершиной в (200, 0)
func wedge(t *testing.T) *Context {
	b := mapdata.NewBuilder()
	s := b.Sector(0, 128, mapdata.DefaultInfo)
	b.Wall(-200, -100, -200, 100, s, mapdata.NoSector, 0)
	b.Wall(-200, 100, 200, 0, s, mapdata.NoSector, 0)
	b.Wall(200, 0, -200, -100, s, mapdata.NoSector, 0)
	m, err := b.Build()
	require.NoError(t, err)
	return newContext(t, m)
}

func TestSlideIntoWedgeUsesNudge(t *testing.T) {
	c := wedge(t)
	m := mover(-100, 0)

	x, y := f(300), fixed.Fixed(0)
	result := c.MoveToXYWithStep(m, &x, &y, f(400))

	assert.Equal(t, MoveBlocked, result)
	assert.Equal(t, uint64(MaxSlideIterations), c.Stats.SlideIterations, "скольжение между стенами клина исчерпывает итерации")
	assert.Less(t, x, f(112), "после отталкивания объект отходит от вершины клина")
	assert.Greater(t, x, f(100))
	assert.LessOrEqual(t, y.Abs(), f(2))

	blocked, _ := c.testBox(m, vec.Vec2{X: x, Y: y}, vec.Vec2{X: x, Y: y}, m.Z, false)
	assert.False(t, blocked, "итоговая точка свободна")
}

func TestSegmentHitBoxRejectsDisjointBoxes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	coord := func() int16 { return int16(rng.Intn(1000) - 500) }

	b := mapdata.NewBuilder()
	s := b.Sector(0, 128, mapdata.DefaultInfo)
	for i := 0; i < 64; i++ {
		b.Wall(coord(), coord(), coord(), coord(), s, s, 0)
	}
	m, err := b.Build()
	require.NoError(t, err)
	c := newContext(t, m)

	for line := range m.Lines {
		x1, y1, x2, y2 := m.LineEnds(line)
		minX, maxX := min32(x1, x2), max32(x1, x2)
		minY, maxY := min32(y1, y2), max32(y1, y2)

		for i := 0; i < 50; i++ {
			gap := int32(rng.Intn(40) + 1)
			size := int32(rng.Intn(300) + 1)
			lo := int32(rng.Intn(1200) - 600)
			var bx1, by1, bx2, by2 int32
			switch rng.Intn(4) {
			case 0: // левее
				bx1, bx2, by1, by2 = minX-gap-size, minX-gap, lo, lo+size
			case 1: // правее
				bx1, bx2, by1, by2 = maxX+gap, maxX+gap+size, lo, lo+size
			case 2: // ниже
				bx1, bx2, by1, by2 = lo, lo+size, minY-gap-size, minY-gap
			default: // выше
				bx1, bx2, by1, by2 = lo, lo+size, maxY+gap, maxY+gap+size
			}
			assert.False(t, c.SegmentHitBox(line, f(bx1), f(by1), f(bx2), f(by2)),
				"линия %d, квадрат (%d,%d)-(%d,%d)", line, bx1, by1, bx2, by2)
		}
	}
}
