package physics

import (
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/world/grid"
)

// CheckLineOfSight виден ли отрезок (x1,y1)-(x2,y2) сквозь стены карты (без учёта высот проёмов)
func (c *Context) CheckLineOfSight(x1, y1, x2, y2 fixed.Fixed) bool {
	return c.sightScan(x1, y1, 0, x2, y2, 0, false)
}

// CheckLineOfSightWithZ как CheckLineOfSight, но луч идёт от высоты z1 к z2 и
// должен пройти каждый проём между его полом и потолком
func (c *Context) CheckLineOfSightWithZ(x1, y1, z1, x2, y2, z2 fixed.Fixed) bool {
	return c.sightScan(x1, y1, z1, x2, y2, z2, true)
}

// ObjectToObjectCheckLineOfSight видит ли a объект b. Если таблица reject отсекает
// пару секторов, полный обход стен не выполняется.
func (c *Context) ObjectToObjectCheckLineOfSight(a, b grid.Body) bool {
	ax, ay, az := a.Position()
	bx, by, bz := b.Position()

	if c.Map.Rejected(c.SectorAt(ax, ay), c.targetSector(bx, by)) {
		c.Stats.RejectShortcuts++
		return false
	}

	eye := az + fixed.FromInt(a.BodyHeight()*3/4)
	center := bz + fixed.FromInt(b.BodyHeight()/2)
	return c.CheckLineOfSightWithZ(ax, ay, eye, bx, by, center)
}

// targetSector сектор цели с кешем последнего запроса: наблюдатели чаще всего
// проверяют одну и ту же цель подряд
func (c *Context) targetSector(x, y fixed.Fixed) uint16 {
	if c.sight.valid && c.sight.x == x && c.sight.y == y {
		return c.sight.sector
	}
	sector := c.SectorAt(x, y)
	c.sight = sightCache{x: x, y: y, sector: sector, valid: true}
	return sector
}

// ResetSightCache сбрасывает кеш сектора цели
func (c *Context) ResetSightCache() {
	c.sight = sightCache{}
}

func (c *Context) sightScan(x1, y1, z1, x2, y2, z2 fixed.Fixed, withZ bool) bool {
	c.Stats.SightScans++

	sx1, sy1, sx2, sy2 := int64(x1), int64(y1), int64(x2), int64(y2)
	minX, maxX := min64(sx1, sx2), max64(sx1, sx2)
	minY, maxY := min64(sy1, sy2), max64(sy1, sy2)

	for i := range c.Map.Lines {
		lx1, ly1, lx2, ly2 := c.lineEndsFixed(i)
		if max64(lx1, lx2) < minX || min64(lx1, lx2) > maxX || max64(ly1, ly2) < minY || min64(ly1, ly2) > maxY {
			continue
		}
		if !c.SegmentHitsSegment(i, x1, y1, x2, y2) {
			continue
		}

		if c.sightBlockedBy(i, x1, y1, z1, x2, y2, z2, withZ) {
			return false
		}
	}
	return true
}

func (c *Context) sightBlockedBy(line int, x1, y1, z1, x2, y2, z2 fixed.Fixed, withZ bool) bool {
	front, back := c.Map.LineSectors(line)
	if !c.Map.ValidSector(front) || !c.Map.ValidSector(back) {
		return true
	}

	flags := c.Map.Lines[line].Flags
	if flags.Has(mapdata.LineImpassable|mapdata.LineAlwaysSolid) && !flags.Has(mapdata.LineTranslucent) {
		return true
	}

	floor := max32(int32(c.Map.Sectors[front].FloorHt), int32(c.Map.Sectors[back].FloorHt))
	ceiling := min32(c.Map.ClampedCeiling(front), c.Map.ClampedCeiling(back))
	if floor >= ceiling {
		return true
	}
	if !withZ {
		return false
	}

	z := c.sightHeightAt(line, x1, y1, z1, x2, y2, z2).Int()
	return z < floor || z > ceiling
}

// sightHeightAt высота луча в точке пересечения со стеной
func (c *Context) sightHeightAt(line int, x1, y1, z1, x2, y2, z2 fixed.Fixed) fixed.Fixed {
	ax, ay, bx, by := c.Map.LineEnds(line)
	ldx, ldy := int64(bx-ax), int64(by-ay)
	lx, ly := int64(ax)<<fixed.Shift, int64(ay)<<fixed.Shift

	sdx, sdy := int64(x2)-int64(x1), int64(y2)-int64(y1)
	num := (lx-int64(x1))*ldy - (ly-int64(y1))*ldx
	den := sdx*ldy - sdy*ldx
	if den == 0 {
		return z1
	}

	dz := int64(z2) - int64(z1)
	return fixed.Fixed(int64(z1) + mulDiv64(dz, num, den))
}
