package physics

import (
	"math"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/world/grid"
)

// SectorAt сектор, содержащий точку, или NoSector вне карты.
// Луч из точки идёт в сторону +X по строке сетки стен; ближайшая пересечённая
// стена определяет сектор по стороне, к которой обращена точка.
func (c *Context) SectorAt(x, y fixed.Fixed) uint16 {
	row := c.Walls.Row(y.Int())
	if row < 0 {
		return mapdata.NoSector
	}

	px, py := int64(x), int64(y)
	best := int64(math.MaxInt64)
	bestLine := -1

	c.nextStamp()
	for col := c.Walls.Column(x.Int()); col < int(c.Walls.Width); col++ {
		cellLeft := int64(c.Walls.OriginX+int32(col)<<grid.WallCellShift) << fixed.Shift
		if bestLine >= 0 && cellLeft > best {
			break
		}

		for _, w := range c.Walls.WallsInCell(c.Walls.CellIndex(col, row)) {
			if !c.visit(w) {
				continue
			}
			x1, y1, x2, y2 := c.lineEndsFixed(int(w))
			if y1 == y2 {
				continue
			}
			// Полуоткрытый диапазон по y: общая вершина не даёт двух пересечений
			if !((y1 <= py && py < y2) || (y2 <= py && py < y1)) {
				continue
			}
			ix := x1 + mulDiv64(py-y1, x2-x1, y2-y1)
			if ix < px {
				continue
			}
			if ix < best {
				best = ix
				bestLine = int(w)
			}
		}
	}

	if bestLine < 0 {
		return mapdata.NoSector
	}
	x1, y1, x2, y2 := c.lineEndsFixed(bestLine)
	if PointOnRight(x1, y1, x2, y2, px, py) {
		return c.Map.SideSector(bestLine, 0)
	}
	return c.Map.SideSector(bestLine, 1)
}

// walkingFloor пол сектора для объекта: жидкость опускает его на глубину
func (c *Context) walkingFloor(sector uint16, doNotSink bool) int32 {
	if doNotSink {
		return int32(c.Map.Sectors[sector].FloorHt)
	}
	return c.Map.WalkingFloor(sector)
}

// Fold добавляет сектор в оболочку: пол: наибольший, потолок: наименьший
func (c *Context) Fold(e *Envelope, sector uint16, doNotSink bool) {
	if !c.Map.ValidSector(sector) {
		return
	}
	if floor := c.walkingFloor(sector, doNotSink); floor > e.Floor {
		e.Floor = floor
		e.FloorSector = sector
	}
	if ceiling := c.Map.ClampedCeiling(sector); ceiling < e.Ceiling {
		e.Ceiling = ceiling
		e.CeilingSector = sector
	}
}

// ComputeEnvelope оболочка над набором секторов; NoSector пропускаются
func (c *Context) ComputeEnvelope(sectors []uint16, doNotSink bool) Envelope {
	e := NewEnvelope()
	for _, s := range sectors {
		c.Fold(&e, s, doNotSink)
	}
	return e
}

// lineBlocksMover непроходима ли линия для объекта по флагам
func (c *Context) lineBlocksMover(line int, m *Mover) bool {
	flags := c.Map.Lines[line].Flags
	if flags.Has(mapdata.LineImpassable | mapdata.LineAlwaysSolid) {
		return true
	}
	return m.Creature && flags.Has(mapdata.LineCreatureImpassable)
}

// IsFloorAndCeilingOk может ли объект пересечь стену при текущей высоте ступней.
// Если acc != nil, сектора обеих сторон добавляются в оболочку и в набор окружающих секторов.
func (c *Context) IsFloorAndCeilingOk(line int, m *Mover, acc *Envelope) bool {
	front, back := c.Map.LineSectors(line)
	if acc != nil {
		for _, s := range [2]uint16{front, back} {
			if c.Map.ValidSector(s) {
				c.Fold(acc, s, m.DoNotSink)
				c.addSector(s)
			}
		}
	}

	if c.lineBlocksMover(line, m) {
		return false
	}
	if !c.Map.ValidSector(front) || !c.Map.ValidSector(back) {
		return false
	}

	floor := max32(c.walkingFloor(front, m.DoNotSink), c.walkingFloor(back, m.DoNotSink))
	ceiling := min32(c.Map.ClampedCeiling(front), c.Map.ClampedCeiling(back))
	foot := m.Foot()

	switch {
	case floor+m.Height > ceiling:
		return false
	case foot+m.ClimbHeight < floor:
		return false
	case foot+m.Height > ceiling:
		return false
	}
	return true
}

// IsSteppable можно ли перешагнуть стену: двусторонняя, проходимая, и объект
// помещается в проёме на своей высоте или после подъёма не выше ClimbHeight
func (c *Context) IsSteppable(line int, m *Mover) bool {
	if c.lineBlocksMover(line, m) {
		return false
	}
	front, back := c.Map.LineSectors(line)
	if !c.Map.ValidSector(front) || !c.Map.ValidSector(back) {
		return false
	}

	floor := max32(c.walkingFloor(front, m.DoNotSink), c.walkingFloor(back, m.DoNotSink))
	ceiling := min32(c.Map.ClampedCeiling(front), c.Map.ClampedCeiling(back))
	foot := m.Foot()
	return floor <= foot+m.ClimbHeight && max32(foot, floor)+m.Height <= ceiling
}

// CanSqueezeThrough помещается ли объект с ногами на zPos и макушкой на zTop
// в оболочку набора секторов
func (c *Context) CanSqueezeThrough(sectors []uint16, zPos, zTop int32, doNotSink bool) bool {
	e := c.ComputeEnvelope(sectors, doNotSink)
	return squeezes(&e, zPos, zTop)
}

func squeezes(e *Envelope, zPos, zTop int32) bool {
	return e.Ceiling >= zTop && e.Floor <= zPos
}

// CanSqueezeThroughWithClimb помещается ли объект в оболочку, поднимаясь на ступеньку.
// При успехе *z поднимается до пола оболочки, если ступни были ниже.
func (c *Context) CanSqueezeThroughWithClimb(sectors []uint16, z *fixed.Fixed, height, climb int32, doNotSink bool) bool {
	e := c.ComputeEnvelope(sectors, doNotSink)
	return climbSqueeze(&e, z, height, climb)
}

func climbSqueeze(e *Envelope, z *fixed.Fixed, height, climb int32) bool {
	foot := z.Int()
	if e.Floor+height >= e.Ceiling || foot+height >= e.Ceiling {
		return false
	}
	if foot >= e.Floor {
		return true
	}
	if foot+climb >= e.Floor {
		*z = fixed.FromInt(e.Floor)
		return true
	}
	return false
}

// GatherSurroundings собирает сектора вокруг квадрата объекта в точке (x, y):
// сектор центра и сектора по обе стороны каждой стены, задевающей квадрат.
// Возвращает оболочку и сектор центра; набор доступен через Surroundings.
func (c *Context) GatherSurroundings(m *Mover, x, y fixed.Fixed) (Envelope, uint16) {
	c.sectors.Reset(MaxObjectSectors)
	e := NewEnvelope()

	center := c.SectorAt(x, y)
	if c.Map.ValidSector(center) {
		c.Fold(&e, center, m.DoNotSink)
		c.addSector(center)
	}

	r := fixed.FromInt(m.Radius)
	bx1, by1, bx2, by2 := x-r, y-r, x+r, y+r
	c.eachWallInBox(bx1.Int(), by1.Int(), bx2.Int(), by2.Int(), func(line int) bool {
		if !c.SegmentHitBox(line, bx1, by1, bx2, by2) {
			return true
		}
		front, back := c.Map.LineSectors(line)
		for _, s := range [2]uint16{front, back} {
			if c.Map.ValidSector(s) {
				c.Fold(&e, s, m.DoNotSink)
				c.addSector(s)
			}
		}
		return true
	})

	assertf(c.sectors.Len() <= MaxObjectSectors, "набор секторов превысил вместимость: %d", c.sectors.Len())
	return e, center
}
