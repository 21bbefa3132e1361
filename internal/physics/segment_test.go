package physics

import (
	"math"
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v int32) fixed.Fixed { return fixed.FromInt(v) }

func TestPointOnRight(t *testing.T) {
	// Идём на север: восток справа
	assert.True(t, PointOnRight(0, 0, 0, 10, 5, 5))
	assert.False(t, PointOnRight(0, 0, 0, 10, -5, 5))
	assert.True(t, PointOnRight(0, 0, 0, 10, 0, 5), "точка на прямой считается справа")

	// Огромные координаты не переполняют произведение
	big := int64(1) << 33
	assert.True(t, PointOnRight(-big, -big, -big, big, big, 0))
	assert.False(t, PointOnRight(-big, -big, -big, big, -2*big, 0))
}

func TestSegmentHitsSegmentStrict(t *testing.T) {
	c, _, _ := twoRooms(t, 0, false)

	assert.True(t, c.SegmentHitsSegment(sharedLine, f(-10), f(0), f(10), f(0)))
	assert.False(t, c.SegmentHitsSegment(sharedLine, f(0), f(0), f(10), f(0)), "касание концом не пересечение")
	assert.False(t, c.SegmentHitsSegment(sharedLine, f(-10), f(200), f(10), f(200)), "мимо конца линии")
	assert.False(t, c.SegmentHitsSegment(sharedLine, f(-10), f(0), f(-5), f(0)))
}

func TestSegmentHitBoxIgnoresDirection(t *testing.T) {
	b := mapdata.NewBuilder()
	s := b.Sector(0, 128, mapdata.DefaultInfo)
	b.Room(-256, -256, 256, 256, s)
	fwd := b.Wall(-100, -100, 100, 60, s, s, 0)
	rev := b.Wall(100, 60, -100, -100, s, s, 0)
	m, err := b.Build()
	require.NoError(t, err)
	c := newContext(t, m)

	boxes := [][4]int32{
		{-10, -30, 10, -10}, // на линии
		{50, -60, 70, -40},  // рядом, но ниже
		{200, 200, 220, 220},
		{-120, -120, -95, -95}, // у конца
		{90, 50, 120, 80},
	}
	for _, bx := range boxes {
		x1, y1, x2, y2 := f(bx[0]), f(bx[1]), f(bx[2]), f(bx[3])
		assert.Equal(t, c.SegmentHitBox(fwd, x1, y1, x2, y2), c.SegmentHitBox(rev, x1, y1, x2, y2), "box %v", bx)
	}

	assert.True(t, c.SegmentHitBox(fwd, f(-10), f(-30), f(10), f(-10)))
	assert.False(t, c.SegmentHitBox(fwd, f(50), f(-60), f(70), f(-40)))
	assert.False(t, c.SegmentHitBox(fwd, f(200), f(200), f(220), f(220)))
}

func TestProjectXYOntoLine(t *testing.T) {
	x, y := ProjectXYOntoLine(f(3), f(7), 1, 0)
	assert.Equal(t, f(3), x)
	assert.Equal(t, fixed.Fixed(0), y)

	x, y = ProjectXYOntoLine(f(2), 0, 3, 3)
	assert.Equal(t, f(1), x, "равные компоненты заменяются единичной диагональю")
	assert.Equal(t, f(1), y)

	x, y = ProjectXYOntoLine(f(5), f(5), 0, 0)
	assert.Equal(t, fixed.Fixed(0), x)
	assert.Equal(t, fixed.Fixed(0), y)

	x, y = ProjectXYOntoLine(f(30), f(20), 0, -512)
	assert.Equal(t, fixed.Fixed(0), x)
	assert.Equal(t, f(20), y)

	// Повторная проекция ничего не меняет
	px, py := ProjectXYOntoLine(f(10), f(4), 200, 100)
	qx, qy := ProjectXYOntoLine(px, py, 200, 100)
	assert.InDelta(t, int64(px), int64(qx), 2)
	assert.InDelta(t, int64(py), int64(qy), 2)
}

func TestMulDiv64Exact(t *testing.T) {
	assert.Equal(t, int64(1)<<39, mulDiv64(1<<40, 1<<40, 1<<41), "произведение шире 64 бит")
	assert.Equal(t, int64(-10), mulDiv64(-7, 3, 2), "усечение к нулю")
	assert.Equal(t, int64(10), mulDiv64(-7, 3, -2))
	assert.Equal(t, int64(0), mulDiv64(5, 5, 0))
	assert.Equal(t, int64(math.MaxInt64), mulDiv64(1<<62, 1<<62, 1), "переполнение насыщается")
	assert.Equal(t, int64(math.MinInt64), mulDiv64(-(1 << 62), 1<<62, 1))

	// Нечётные младшие биты не теряются
	a, b, c := int64(1)<<40+3, int64(1)<<35+5, int64(1)<<41+1
	assert.Equal(t, int64(17179869186), mulDiv64(a, b, c))
}

func TestSightHeightAtIsExact(t *testing.T) {
	b := mapdata.NewBuilder()
	s := b.Sector(0, 128, mapdata.DefaultInfo)
	b.Room(-256, -256, 256, 256, s)
	slanted := b.Wall(-3, -101, 5, 97, s, s, 0)
	m, err := b.Build()
	require.NoError(t, err)
	c := newContext(t, m)

	z := c.sightHeightAt(slanted,
		f(-100)+1, f(1)+5, f(7)+1,
		f(200)+3, f(-3)+11, f(30000)+7)
	assert.Equal(t, fixed.Fixed(662655221), z)
}
